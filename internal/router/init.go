package router

import (
	"github.com/oksasatya/campus-auth/internal/application"
	"github.com/oksasatya/campus-auth/internal/container"
	repo "github.com/oksasatya/campus-auth/internal/domain/repository"
	pginfra "github.com/oksasatya/campus-auth/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/campus-auth/internal/interface/http"
	"github.com/oksasatya/campus-auth/internal/router/modules"
	"github.com/oksasatya/campus-auth/pkg/helpers"
)

type AuthModuleDeps struct {
	Service *application.AuthService
	Handler *handlers.AuthHandler
}

type AccountModuleDeps struct {
	Service *application.AccountService
	Handler *handlers.AccountHandler
}

func buildAuthDeps(accounts repo.AccountRepository) AuthModuleDeps {
	cfg := container.GetConfig()

	service := application.NewAuthService(
		accounts,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
	)
	service.AppName = cfg.AppName
	service.MailSendEnabled = cfg.MailSendEnabled
	// typed nils must not leak into the interfaces
	if idx := container.GetAccountIndex(); idx != nil {
		service.Index = idx
	}
	if pub := container.GetRabbitPub(); pub != nil {
		service.Pub = pub
	}

	handler := handlers.NewAuthHandler(
		service,
		container.GetGoogle(),
		container.GetLogger(),
		helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		cfg.FrontendBaseURL(),
	)

	return AuthModuleDeps{Service: service, Handler: handler}
}

func buildAccountDeps(accounts repo.AccountRepository) AccountModuleDeps {
	cfg := container.GetConfig()

	service := application.NewAccountService(
		accounts,
		container.GetRedis(),
		container.GetLogger(),
		cfg.InstitutionEmailDomain,
	)
	if idx := container.GetAccountIndex(); idx != nil {
		service.Index = idx
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		service.Store = helpers.NewGCSStore(gcs, cfg.GCSBucket)
	}

	return AccountModuleDeps{
		Service: service,
		Handler: handlers.NewAccountHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	accounts := pginfra.NewAccountRepository(container.GetPGPool())

	authDeps := buildAuthDeps(accounts)
	accountDeps := buildAccountDeps(accounts)

	r.Add(modules.NewAuthModule(authDeps.Handler, accountDeps.Handler, container.GetRedis(), container.GetJWT()))
	r.Add(modules.NewAccountModule(accountDeps.Handler, container.GetRedis(), container.GetJWT()))
	r.Add(modules.NewDebugModule())
}
