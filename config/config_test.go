package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PORT", "")
	t.Setenv("ASSISTANT_TIMEOUT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 180*time.Second, cfg.Assistant.Timeout)
	assert.Equal(t, "llama3.1:latest", cfg.Assistant.Model)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.RunMigrations)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("ASSISTANT_TIMEOUT", "15")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.Assistant.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.RunMigrations)
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")

	for _, secret := range []string{"", "change-me"} {
		t.Setenv("JWT_SECRET", secret)
		cfg, err := Load()
		assert.ErrorIs(t, err, ErrInsecureJWTSecret, "secret %q", secret)
		assert.Nil(t, cfg)
	}

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_DevelopmentKeepsDefaultSecret(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "change-me", cfg.JWTSecret)
}
