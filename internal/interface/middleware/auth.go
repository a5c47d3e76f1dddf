package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/campus-auth/internal/application"
	"github.com/oksasatya/campus-auth/pkg/helpers"
	"github.com/oksasatya/campus-auth/pkg/response"
)

const (
	CtxAccountIDKey = "accountID"
	CtxEmailKey     = "accountEmail"
	CtxSessionKey   = "sessionID"
)

// bearerToken reads the token from the Authorization header, falling back to the access_token cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}

// Auth validates the session token. When Redis is configured the token's
// session id must match the active session stored for the account.
// It sets accountID, accountEmail and sessionID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		if rdb != nil {
			sid, err := rdb.HGet(c.Request.Context(), application.SessionKey(claims.AccountID()), "sid").Result()
			if err != nil || sid == "" || sid != claims.SessionID {
				response.Abort(c, http.StatusUnauthorized, "session not found", nil)
				return
			}
		}

		c.Set(CtxAccountIDKey, claims.AccountID())
		c.Set(CtxEmailKey, claims.Email)
		c.Set(CtxSessionKey, claims.SessionID)
		c.Next()
	}
}
