// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/mmynk/assettrack/pkg/logging"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Valuation ValuationConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	// StaticPath is an optional directory of static files served at /.
	StaticPath string
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	DBPath string
}

// ValuationConfig controls how values are reported and refreshed.
type ValuationConfig struct {
	// Currency is the ISO 4217 code used for formatted totals.
	Currency string
	// RevalueSchedule is a standard 5-field cron spec for the nightly
	// revaluation. Empty disables it.
	RevalueSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine; the environment may carry everything.
		_ = godotenv.Load()
	}

	schedule, set := os.LookupEnv("REVALUE_SCHEDULE")
	if !set {
		schedule = "0 2 * * *"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       getenvWithDefault("APP_PORT", "8080"),
			StaticPath: os.Getenv("STATIC_PATH"),
		},
		Storage: StorageConfig{
			DBPath: getenvWithDefault("DB_PATH", "./data/assets.db"),
		},
		Valuation: ValuationConfig{
			Currency:        getenvWithDefault("CURRENCY", "GBP"),
			RevalueSchedule: schedule,
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and well formed.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Storage.DBPath == "" {
		return errors.New("DB_PATH must be provided")
	}

	if money.GetCurrency(c.Valuation.Currency) == nil {
		return fmt.Errorf("CURRENCY %q is not an ISO 4217 code", c.Valuation.Currency)
	}

	if c.Valuation.RevalueSchedule != "" {
		if _, err := cron.ParseStandard(c.Valuation.RevalueSchedule); err != nil {
			return fmt.Errorf("REVALUE_SCHEDULE is invalid: %w", err)
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
