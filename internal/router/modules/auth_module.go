package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-auth/internal/interface/http"
	"github.com/oksasatya/campus-auth/internal/interface/middleware"
	"github.com/oksasatya/campus-auth/pkg/helpers"
)

// AuthModule serves the Google login round trip and the current-account endpoints.
// Public: GET /api/auth/google, GET /api/auth/google/callback, GET /api/auth/health
// Protected: POST /api/auth/logout
// Protected, active accounts only: GET/PUT /api/auth/me, POST /api/auth/me/avatar
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Accounts *handlers.AccountHandler
	Redis    *redis.Client
	JWT      *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, accounts *handlers.AccountHandler, rdb *redis.Client, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Accounts: accounts, Redis: rdb, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/auth/google", m.Handler.GoogleLogin)
	rg.GET("/auth/google/callback", m.Handler.GoogleCallback)
	rg.GET("/auth/health", m.Handler.Health)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.POST("/logout", m.Handler.Logout)

	me := auth.Group("/me")
	me.Use(middleware.ActiveAccount(m.Accounts.Svc.EnsureActive))
	{
		me.GET("", m.Accounts.GetMe)
		me.PUT("", m.Accounts.UpdateMe)
		me.POST("/avatar", m.Accounts.UploadAvatar)
	}
}
