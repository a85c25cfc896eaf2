package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "")
	for _, key := range []string{"APP_HOST", "APP_PORT", "HTTP_REQUEST_TIMEOUT_SECONDS", "REDIS_IDENTITY_TTL_SECONDS", "REDIS_ADDR", "ADMIN_BOOTSTRAP_EMAIL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 10, cfg.HTTP.PaginationDefaultLimit)
	assert.Equal(t, 5*time.Minute, cfg.Redis.IdentityTTL())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.Admin.Enabled())
}

func TestLoadAdminBootstrap(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ADMIN_BOOTSTRAP_EMAIL", "root@desk.test")
	t.Setenv("ADMIN_BOOTSTRAP_PASSWORD", "correct-horse")
	t.Setenv("ADMIN_BOOTSTRAP_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Admin.Enabled())
	assert.Equal(t, "Administrator", cfg.Admin.Name)
	assert.Equal(t, "root@desk.test", cfg.Admin.Email)

	t.Setenv("ADMIN_BOOTSTRAP_PASSWORD", "short")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_BOOTSTRAP_PASSWORD")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("APP_HOST", "")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "25")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://desk.example.com")
	t.Setenv("REDIS_IDENTITY_TTL_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 25, cfg.HTTP.PaginationDefaultLimit)
	assert.Equal(t, "https://desk.example.com", cfg.HTTP.CORSAllowOrigins)
	assert.Zero(t, cfg.Redis.IdentityTTL())
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:  AppConfig{Env: "dev"},
		Auth: AuthConfig{JWTSecret: devJWTSecret, AccessTokenTTLMinutes: 60},
		HTTP: HTTPConfig{PaginationDefaultLimit: 10},
	}
	require.NoError(t, cfg.Validate())

	cfg.HTTP.PaginationDefaultLimit = 0
	cfg.Auth.AccessTokenTTLMinutes = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGINATION_DEFAULT_LIMIT")
	assert.Contains(t, err.Error(), "AUTH_ACCESS_TOKEN_TTL_MINUTES")
}
