package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campus-auth/internal/application"
	"github.com/oksasatya/campus-auth/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newAuthEngine(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth(nil, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxAccountIDKey)+"|"+c.GetString(CtxEmailKey))
	})
	return r
}

func TestAuth_AcceptsBearerAndCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, "")
	tok, _, err := jwt.GenerateAccessToken("acc-1", "a@x.com", "sid-1")
	require.NoError(t, err)
	r := newAuthEngine(jwt)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acc-1|a@x.com", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: tok})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_Rejects(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, "")
	other := helpers.NewJWTManager("other", time.Hour, "")
	forged, _, err := other.GenerateAccessToken("acc-1", "a@x.com", "")
	require.NoError(t, err)
	r := newAuthEngine(jwt)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"forged":       "Bearer " + forged,
		"garbage":      "Bearer not.a.jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Body.String()
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Header().Get(RequestIDHeader))

	incoming := "0b7a3f53-7d8e-4a57-9f55-4c1e4b6f2d11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.7")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.1", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), RequestLogger(logger))
	r.GET("/api/auth/google/callback", func(c *gin.Context) { c.Status(http.StatusFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=secret-code", nil))

	assert.Contains(t, buf.String(), `"path":"/api/auth/google/callback"`)
	assert.NotContains(t, buf.String(), "secret-code")
	assert.Contains(t, buf.String(), `"status":302`)
}

func TestActiveAccount(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, "")
	results := map[string]error{
		"acc-active":    nil,
		"acc-suspended": application.ErrAccountInactive,
		"acc-gone":      application.ErrAccountNotFound,
		"acc-db-down":   errors.New("connection refused"),
	}
	r := gin.New()
	r.GET("/me", Auth(nil, jwt), ActiveAccount(func(_ context.Context, id string) error {
		return results[id]
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	want := map[string]int{
		"acc-active":    http.StatusOK,
		"acc-suspended": http.StatusUnauthorized,
		"acc-gone":      http.StatusUnauthorized,
		"acc-db-down":   http.StatusInternalServerError,
	}
	for id, status := range want {
		t.Run(id, func(t *testing.T) {
			tok, _, err := jwt.GenerateAccessToken(id, "a@x.com", "sid")
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, status, w.Code)
		})
	}
}
