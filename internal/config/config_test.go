package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "42")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "bot")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "lists")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(42), cfg.AdminID)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, "/webhook", cfg.WebhookPath)
	require.False(t, cfg.RateLimitEnabled())

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err = Load()
	require.NoError(t, err)
	require.True(t, cfg.RateLimitEnabled())
}

func TestLoad_ZeroAdminID(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "0")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "bot")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "lists")

	_, err := Load()
	require.Error(t, err)
}
