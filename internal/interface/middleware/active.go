package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campus-auth/internal/application"
	"github.com/oksasatya/campus-auth/pkg/response"
)

// ActiveAccount rejects tokens whose account was removed or is no longer
// active. It must run after Auth.
func ActiveAccount(ensure func(ctx context.Context, accountID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := ensure(c.Request.Context(), c.GetString(CtxAccountIDKey))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, application.ErrAccountInactive):
			response.Abort(c, http.StatusUnauthorized, "account is not active", nil)
		case errors.Is(err, application.ErrAccountNotFound):
			response.Abort(c, http.StatusUnauthorized, "account not found", nil)
		default:
			response.Abort(c, http.StatusInternalServerError, "failed to verify account", nil)
		}
	}
}
