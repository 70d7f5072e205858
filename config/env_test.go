package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "TICK_INTERVAL", "STORE_BACKEND", "REDIS_DB", "CORS_ORIGINS", "MAX_SESSIONS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultTickInterval, cfg.TickInterval)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, DefaultMaxSessions, cfg.MaxSessions)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("TICK_INTERVAL", "100ms")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("API_READ_TIMEOUT", "not-a-duration")
	t.Setenv("MAX_SESSIONS", "25")

	cfg := FromEnv()
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.RedisTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 25, cfg.MaxSessions)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MONGO_DB=from-dotenv\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("MONGO_DB", "")
	require.NoError(t, os.Unsetenv("MONGO_DB"))

	cfg := Load()
	assert.Equal(t, "from-dotenv", cfg.MongoDatabase)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, MinCellSize, ClampCellSize(1))
	assert.Equal(t, MaxCellSize, ClampCellSize(500))
	assert.Equal(t, 45.0, ClampCellSize(45))

	assert.Equal(t, MinMoveDuration, ClampMoveDuration(0))
	assert.Equal(t, MaxMoveDuration, ClampMoveDuration(2))
	assert.Equal(t, 0.5, ClampMoveDuration(0.5))
}
