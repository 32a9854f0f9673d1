package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv       string
	DBPath       string
	DBDriver     string
	HTTPPort     int
	RedisAddr    string
	ResponseTTL  time.Duration
	GeminiAPIKey string
	GeminiModel  string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	portStr := getEnv("HTTP_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 8080
	}

	ttlStr := getEnv("RESPONSE_CACHE_TTL", "10m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 10 * time.Minute
	}

	return &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		DBPath:       getEnv("DB_PATH", "./data/database.db"),
		DBDriver:     getEnv("DB_DRIVER", "sqlite3"),
		HTTPPort:     port,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		ResponseTTL:  ttl,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
