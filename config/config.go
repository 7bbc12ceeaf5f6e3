// Package config provides configuration for the interview engine.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the engine configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Answer service
	AnswererURL string

	// Streaming
	AnswerTimeout time.Duration
	HistoryLimit  int

	// Listing
	MaxPageSize int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:   getEnv("DATABASE_URL", "file:engine.db?cache=shared&mode=rwc"),
		AnswererURL:   getEnv("ANSWERER_URL", "http://localhost:8090"),
		AnswerTimeout: time.Duration(getEnvInt("ANSWER_TIMEOUT_MS", 300000)) * time.Millisecond,
		HistoryLimit:  getEnvInt("HISTORY_LIMIT", 5),
		MaxPageSize:   getEnvInt("MAX_PAGE_SIZE", 100),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
