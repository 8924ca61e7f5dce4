// Package config loads application configuration from the environment,
// with a .env file honored when present.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/centavo/centavo/pkg/money"
)

// Config holds all application configuration
type Config struct {
	Import        ImportConfig
	Seed          SeedConfig
	Observability ObservabilityConfig
}

type ImportConfig struct {
	// BaseCurrency is the ISO-4217 code rows fall back to when their
	// currency column is missing or unmatched.
	BaseCurrency string
	// MaxRows caps how many data rows one file may carry; 0 means no cap.
	MaxRows int
}

type SeedConfig struct {
	// Dir points at the reference-data CSV files loaded on startup.
	Dir string
}

type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Import: ImportConfig{
			BaseCurrency: getEnv("BASE_CURRENCY", "EUR"),
			MaxRows:      getEnvAsInt("IMPORT_MAX_ROWS", 0),
		},
		Seed: SeedConfig{
			Dir: getEnv("SEED_DIR", "./seed"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "text"),
		},
	}

	if !money.ValidCode(cfg.Import.BaseCurrency) {
		return nil, errors.New("BASE_CURRENCY must be a valid ISO-4217 code")
	}
	if cfg.Import.MaxRows < 0 {
		return nil, errors.New("IMPORT_MAX_ROWS must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
