package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hr")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 30, cfg.RateLimitPerMinute)
	require.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadValue(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{DatabaseURL: "postgres://x", MaxBodyBytes: 4096, RateLimitPerMinute: 10, AuthRateLimitPerMinute: 5, LogFormat: "json"}
	require.NoError(t, base.Validate())

	missingDB := base
	missingDB.DatabaseURL = ""
	require.Error(t, missingDB.Validate())

	prod := base
	prod.Environment = "production"
	require.Error(t, prod.Validate())
	prod.JWTSecret = "short"
	require.Error(t, prod.Validate())
	prod.JWTSecret = "0123456789abcdef0123456789abcdef"
	prod.RunSeed = false
	require.NoError(t, prod.Validate())

	email := base
	email.EmailEnabled = true
	require.Error(t, email.Validate())

	format := base
	format.LogFormat = "pretty"
	require.Error(t, format.Validate())
}
