// Package config reads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port         string
	StoreBackend string
	DBPath       string
	RedisAddr    string
	RedisDB      int
	JWTSecret    string
	JWTTTL       time.Duration
	LogLevel     string
	LogFormat    string
	CORSOrigins  []string
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. It reports whether a file was loaded.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:         fallback(os.Getenv("PORT"), "8080"),
		StoreBackend: strings.ToLower(fallback(os.Getenv("STORE_BACKEND"), BackendSQLite)),
		DBPath:       fallback(os.Getenv("DB_PATH"), "./data/stash.db"),
		RedisAddr:    fallback(os.Getenv("REDIS_ADDR"), "localhost:6379"),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		LogLevel:     fallback(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:    fallback(os.Getenv("LOG_FORMAT"), "tint"),
		CORSOrigins:  parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	redisDB, err := strconv.Atoi(fallback(os.Getenv("REDIS_DB"), "0"))
	if err != nil || redisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be a non-negative integer, got %q", os.Getenv("REDIS_DB"))
	}
	cfg.RedisDB = redisDB

	switch cfg.StoreBackend {
	case BackendSQLite, BackendRedis:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendRedis, cfg.StoreBackend)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
