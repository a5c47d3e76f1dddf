package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "")
	cfg := Load()

	assert.Equal(t, "campus-auth", cfg.AppName)
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL)
	assert.Equal(t, "students.uin-suska.ac.id", cfg.InstitutionEmailDomain)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "2h")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("FRONTEND_URL", "https://market.example.com/")

	cfg := Load()
	assert.Equal(t, 2*time.Hour, cfg.AccessTTL)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 0, cfg.RedisDB, "invalid ints fall back to the default")
	assert.Equal(t, "https://market.example.com", cfg.FrontendBaseURL())
}

func TestPostgresDSN_EscapesCredentials(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "market", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/market?sslmode=disable", cfg.PostgresDSN())
}

func TestCSVHelpers(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a , ,http://b", ElasticsearchAddrs: "http://es:9200"}
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es:9200"}, cfg.ESAddrs())
}

func TestValidate(t *testing.T) {
	cfg := &Config{JWTSecret: "s"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_SECRET")

	cfg = &Config{GoogleClientID: "id", GoogleClientSecret: "secret", GoogleCallbackURL: "http://cb", JWTSecret: "devsecret", Env: "production"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "real-secret"
	assert.NoError(t, cfg.Validate())
}
