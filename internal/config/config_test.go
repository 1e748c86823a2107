package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "STORE_BACKEND", "DB_PATH", "REDIS_ADDR", "REDIS_DB",
	"JWT_SECRET", "JWT_TTL_MINUTES", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS",
}

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "./data/stash.db", cfg.DBPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tint", cfg.LogFormat)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "unknown backend", env: map[string]string{"JWT_SECRET": "x", "STORE_BACKEND": "postgres"}},
		{name: "bad redis db", env: map[string]string{"JWT_SECRET": "x", "REDIS_DB": "two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadInvalidTTLFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_MINUTES", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nPORT=7070\n"), 0o600))

	// Variables already present in the environment win over the file.
	t.Setenv("PORT", "6060")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	assert.True(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "6060", cfg.Port)

	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
