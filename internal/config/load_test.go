package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TBILINGO_DATABASE_URL", "postgres://localhost:5432/tbilingo")
	t.Setenv("TBILINGO_AUTH_JWT_SECRET", testJWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 10080, cfg.Auth.RefreshTokenLifetimeMinutes)
	assert.Equal(t, 256, cfg.Session.WriteQueueSize)
	assert.Equal(t, "postgres://localhost:5432/tbilingo", cfg.Database.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TBILINGO_SERVER_PORT", "9090")
	t.Setenv("TBILINGO_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TBILINGO_SESSION_WRITE_QUEUE_SIZE", "32")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 32, cfg.Session.WriteQueueSize)
}

func TestLoadRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("TBILINGO_DATABASE_URL", "")
	t.Setenv("TBILINGO_AUTH_JWT_SECRET", testJWTSecret)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("TBILINGO_DATABASE_URL", "postgres://localhost:5432/tbilingo")
	t.Setenv("TBILINGO_AUTH_JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TBILINGO_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
