package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paytracker/paytracker/internal/app"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, app.BackendFile, cfg.StorageBackend)
	require.Equal(t, "paytracker:db", cfg.StorageKey)
	require.False(t, cfg.RestrictClientDelete)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "10.0.0.5:6379")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, app.BackendRedis, cfg.StorageBackend)
	require.Equal(t, "10.0.0.5:6379", cfg.RedisAddr)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "bogus")
	_, err := app.LoadConfig()
	require.Error(t, err)
}
