package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-auth/config"
	"github.com/oksasatya/campus-auth/internal/domain/entity"
	pginfra "github.com/oksasatya/campus-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-auth/pkg/helpers"
)

// seed inserts a demo account. Google logins with the same email attach to it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	email := os.Getenv("SEED_EMAIL")
	if email == "" {
		email = "12050110001@" + cfg.InstitutionEmailDomain
	}

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO accounts (email, full_name, provider, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, updated_at = now()
		RETURNING id
	`, email, "Demo Student", entity.ProviderGoogle, string(entity.AccountActive)).Scan(&id)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed account")
	}
	logger.WithFields(logrus.Fields{"id": id, "email": email}).Info("seeded account")
}
