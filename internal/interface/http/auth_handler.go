package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"expvar"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-auth/internal/application"
	"github.com/oksasatya/campus-auth/internal/interface/middleware"
	"github.com/oksasatya/campus-auth/pkg/helpers"
	"github.com/oksasatya/campus-auth/pkg/response"
)

const oauthStateTTL = 10 * time.Minute

// Error codes carried in the frontend error redirect.
const (
	msgAccountInactive = "account_inactive"
	msgInvalidState    = "invalid_state"
	msgAuthFailed      = "authentication_failed"
	msgProfileInvalid  = "profile_incomplete"
	msgIdentityInUse   = "identity_conflict"
)

var (
	loginSuccess = expvar.NewInt("auth_google_login_success")
	loginCreated = expvar.NewInt("auth_google_account_created")
	loginFailure = expvar.NewMap("auth_google_login_failure")
)

// IdentityProvider runs the external authorization-code handshake.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (application.RawProfile, error)
}

type AuthHandler struct {
	Svc         *application.AuthService
	Provider    IdentityProvider
	Logger      *logrus.Logger
	Cookies     *helpers.Manager
	FrontendURL string
}

func NewAuthHandler(svc *application.AuthService, provider IdentityProvider, logger *logrus.Logger, cookies *helpers.Manager, frontendURL string) *AuthHandler {
	return &AuthHandler{Svc: svc, Provider: provider, Logger: logger, Cookies: cookies, FrontendURL: frontendURL}
}

func genState(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// GoogleLogin GET /api/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := genState(24)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "state generation failed", nil)
		return
	}
	h.Cookies.SetOAuthState(c, state, oauthStateTTL)
	c.Redirect(http.StatusTemporaryRedirect, h.Provider.AuthCodeURL(state))
}

// GoogleCallback GET /api/auth/google/callback
// Redirects to the frontend with the session token, or to its error page.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	entry := h.Logger.WithFields(logrus.Fields{"ip": clientIP(c), "request_id": c.GetString("request_id")})

	if e := c.Query("error"); e != "" {
		entry.WithField("provider_error", e).Warn("google denied authorization")
		h.redirectError(c, msgAuthFailed)
		return
	}

	state, err := c.Cookie(helpers.OAuthStateCookie)
	h.Cookies.ClearOAuthState(c)
	if err != nil || state == "" || state != c.Query("state") {
		entry.Warn("oauth state mismatch")
		h.redirectError(c, msgInvalidState)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, msgAuthFailed)
		return
	}

	raw, err := h.Provider.Exchange(c.Request.Context(), code)
	if err != nil {
		entry.WithError(err).Error("google exchange failed")
		h.redirectError(c, msgAuthFailed)
		return
	}

	identity, err := application.Normalize(raw)
	if err != nil {
		entry.WithError(err).Warn("google profile rejected")
		h.redirectError(c, msgProfileInvalid)
		return
	}

	res, err := h.Svc.Reconcile(c.Request.Context(), identity)
	switch {
	case errors.Is(err, application.ErrAccountInactive):
		entry.WithField("email", identity.Email).Info("login refused for inactive account")
		h.redirectError(c, msgAccountInactive)
		return
	case errors.Is(err, application.ErrIdentityConflict):
		entry.WithField("email", identity.Email).Warn("google id already linked elsewhere")
		h.redirectError(c, msgIdentityInUse)
		return
	case err != nil:
		entry.WithError(err).Error("account reconciliation failed")
		h.redirectError(c, msgAuthFailed)
		return
	}

	loginSuccess.Add(1)
	if res.Created {
		loginCreated.Add(1)
	}
	entry.WithFields(logrus.Fields{"account_id": res.Account.ID, "created": res.Created}).Info("google login")
	h.Cookies.SetAccessToken(c, res.AccessToken, res.AccessTokenExpiry)
	c.Redirect(http.StatusFound, h.FrontendURL+"/auth/callback?token="+url.QueryEscape(res.AccessToken))
}

func (h *AuthHandler) redirectError(c *gin.Context, msg string) {
	loginFailure.Add(msg, 1)
	c.Redirect(http.StatusFound, h.FrontendURL+"/auth/error?message="+url.QueryEscape(msg))
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := application.EndSession(c.Request.Context(), h.Svc.Redis, c.GetString(middleware.CtxAccountIDKey)); err != nil {
		h.Logger.WithError(err).Warn("failed to end session")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// Health GET /api/auth/health
func (h *AuthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
