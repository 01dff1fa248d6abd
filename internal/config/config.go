// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the workspace settings.
type Config struct {
	AutoSave      bool
	AutoSaveDelay time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// Metrics endpoint, disabled when empty
	MetricsAddr string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		AutoSave:      false,
		AutoSaveDelay: 2 * time.Second,
		LogLevel:      "info",
		LogFormat:     "console",
		LogOutput:     "stderr",
	}
}

// Load reads configuration from environment variables with defaults.
// Variables from the given dotenv files are applied first without overriding the real environment.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	d := Defaults()
	cfg := &Config{
		AutoSave:      envBool("DOCSPACE_AUTOSAVE", d.AutoSave),
		AutoSaveDelay: envDuration("DOCSPACE_AUTOSAVE_DELAY", d.AutoSaveDelay),
		LogLevel:      envOr("DOCSPACE_LOG_LEVEL", d.LogLevel),
		LogFormat:     envOr("DOCSPACE_LOG_FORMAT", d.LogFormat),
		LogOutput:     envOr("DOCSPACE_LOG_OUTPUT", d.LogOutput),
		MetricsAddr:   envOr("DOCSPACE_METRICS_ADDR", ""),
	}

	if cfg.AutoSaveDelay <= 0 {
		return nil, fmt.Errorf("DOCSPACE_AUTOSAVE_DELAY must be positive, got %s", cfg.AutoSaveDelay)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
