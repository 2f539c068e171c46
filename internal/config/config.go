// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	DataDir  string // Base directory for the history database (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// Engine tolerances. Exposed as configuration because the exact
	// defaults are documented contract values, not bit-exact constants.
	NormTolerance float64 // unit-norm deviation accepted before rescaling (default 1e-6)
	NearZero      float64 // probability filtering threshold (default 1e-10)
	MaxQubits     int     // dense-computation ceiling (default 20)

	HistogramWidth       int // default display width forwarded to renderers
	HistoryRetentionDays int // archived runs older than this are pruned
}

// Load reads configuration from environment variables (.env supported).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("QUASAR_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		Port:                 getEnvAsInt("QUASAR_PORT", 8040),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		NormTolerance:        getEnvAsFloat("QUASAR_NORM_TOLERANCE", 1e-6),
		NearZero:             getEnvAsFloat("QUASAR_NEAR_ZERO", 1e-10),
		MaxQubits:            getEnvAsInt("QUASAR_MAX_QUBITS", 20),
		HistogramWidth:       getEnvAsInt("QUASAR_HISTOGRAM_WIDTH", 50),
		HistoryRetentionDays: getEnvAsInt("QUASAR_HISTORY_RETENTION_DAYS", 90),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.NormTolerance <= 0 {
		return fmt.Errorf("normalization tolerance must be positive, got %g", c.NormTolerance)
	}
	if c.NearZero <= 0 {
		return fmt.Errorf("near-zero threshold must be positive, got %g", c.NearZero)
	}
	if c.MaxQubits < 1 {
		return fmt.Errorf("max qubits must be at least 1, got %d", c.MaxQubits)
	}
	return nil
}

// HistoryDBPath returns the archived-runs database location.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
