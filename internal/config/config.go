package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Database
	DatabaseURL string

	// Redis (optional; enables the distributed rate limiter)
	RedisURL string

	// JWT
	JWTSecret     string
	JWTExpiration time.Duration

	// CORS
	CORSAllowedOrigins []string

	// Judge
	JudgeURL     string
	JudgeTimeout time.Duration

	// Matchmaking
	QueueMaxWait time.Duration
}

func Load() (*Config, error) {
	// Load .env when present; real env vars win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiration: parseDuration(getEnv("JWT_EXPIRATION", "24h"), 24*time.Hour),
		JudgeURL:      getEnv("JUDGE_URL", "http://localhost:8081"),
		JudgeTimeout:  parseDuration(getEnv("JUDGE_TIMEOUT", "30s"), 30*time.Second),
		QueueMaxWait:  parseDuration(getEnv("QUEUE_MAX_WAIT", "10m"), 10*time.Minute),
		CORSAllowedOrigins: splitAndTrim(getEnv(
			"CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:5173",
		)),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
