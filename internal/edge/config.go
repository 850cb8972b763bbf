// Package edge - BFF-шлюз: страничный guard, same-origin прокси
// аутентификации, кэш запросов и workspace AI-чата.
package edge

import (
	"os"
	"strconv"
)

// Config - конфигурация шлюза из окружения (.env подхватывает cmd/edge).
type Config struct {
	Port          int
	BackendURL    string
	StaticDir     string
	SessionFile   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CookieSecure  bool
}

func FromEnv() Config {
	return Config{
		Port:          envInt("EDGE_PORT", 3000),
		BackendURL:    envString("EDGE_BACKEND_URL", "http://localhost:8000/api/v1"),
		StaticDir:     envString("EDGE_STATIC_DIR", "./frontend/dist"),
		SessionFile:   envString("EDGE_SESSION_FILE", "./data/sessions.json"),
		RedisAddr:     os.Getenv("EDGE_REDIS_ADDR"),
		RedisPassword: os.Getenv("EDGE_REDIS_PASSWORD"),
		RedisDB:       envInt("EDGE_REDIS_DB", 0),
		CookieSecure:  envBool("EDGE_COOKIE_SECURE", false),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}
