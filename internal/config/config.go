// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"storebooks/internal/core/types"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Report   ReportConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Env      string
	Port     string
	LogLevel string
}

// Development reports whether the service runs in development mode.
func (c AppConfig) Development() bool {
	return c.Env == "development"
}

// DatabaseConfig holds the record store connection settings.
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds bearer token settings.
type JWTConfig struct {
	Secret string
	Issuer string
}

// ReportConfig holds the summary report settings.
type ReportConfig struct {
	Money    types.MoneyPolicy
	Location *time.Location
	Timeout  time.Duration
}

// Load reads configuration from the environment.
// A .env file in the working directory is applied first if present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	scale := getEnvInt("REPORT_MONEY_SCALE", 2)
	if scale < 0 || scale > 8 {
		return nil, fmt.Errorf("REPORT_MONEY_SCALE must be between 0 and 8, got %d", scale)
	}

	mode, err := types.ParseRoundingMode(getEnv("REPORT_ROUNDING", string(types.RoundHalfUp)))
	if err != nil {
		return nil, fmt.Errorf("REPORT_ROUNDING: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnv("APP_PORT", "8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			Issuer: getEnv("JWT_ISSUER", "storebooks"),
		},
		Report: ReportConfig{
			Money:    types.MoneyPolicy{Scale: int32(scale), Mode: mode},
			Location: loc,
			Timeout:  getEnvDuration("REPORT_TIMEOUT", 30*time.Second),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
