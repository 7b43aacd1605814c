package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "REDIS_ADDR", "JWT_SECRET", "JWT_EXPIRY", "CACHE_TTL", "RESET_DB"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "4500", cfg.ServerPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "change-me", cfg.JWTSecret)
	assert.Zero(t, cfg.JWTExpiry)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.ResetDB)
	assert.False(t, cfg.UsesMongo())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXPIRY", "24h")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RESET_DB", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.UsesMongo())
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.ResetDB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("JWT_EXPIRY", "forever")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Zero(t, cfg.JWTExpiry)
}
