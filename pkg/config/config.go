package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL     string
	DatabaseURL    string
	AppEnv         string
	RequestTimeout time.Duration // 0 keeps the transport default
	CopyFeedback   time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8081"),
		DatabaseURL:    getEnv("DATABASE_URL", "file:session.sqlite"),
		AppEnv:         getEnv("APP_ENV", "local"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 0),
		CopyFeedback:   getDuration("COPY_FEEDBACK_DURATION", 2*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("config: invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
