package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE", "SQLITE_PATH", "RATE_LIMIT_BACKEND", "RATE_LIMIT_PER_MIN", "REQUEST_TIMEOUT_MS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "pg", cfg.Storage)
	require.Equal(t, "bookings.db", cfg.SQLitePath)
	require.Equal(t, "none", cfg.RateLimitBackend)
	require.Equal(t, 120, cfg.RateLimitPerMin)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("STORAGE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/b.db")
	t.Setenv("RATE_LIMIT_PER_MIN", "not-a-number")
	t.Setenv("REDIS_DB", "2")
	cfg := Load()
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, "sqlite", cfg.Storage)
	require.Equal(t, "/tmp/b.db", cfg.SQLitePath)
	require.Equal(t, 120, cfg.RateLimitPerMin)
	require.Equal(t, 2, cfg.RedisDB)
}
