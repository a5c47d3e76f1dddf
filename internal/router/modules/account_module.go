package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-auth/internal/interface/http"
	"github.com/oksasatya/campus-auth/internal/interface/middleware"
	"github.com/oksasatya/campus-auth/pkg/helpers"
)

type AccountModule struct {
	Handler *handlers.AccountHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, rdb *redis.Client, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/accounts")
	auth.Use(middleware.Auth(m.Redis, m.JWT), middleware.ActiveAccount(m.Handler.Svc.EnsureActive))
	{
		// Search accounts via Elasticsearch
		auth.GET("/search", m.Handler.Search)
	}
}
