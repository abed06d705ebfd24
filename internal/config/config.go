// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nickybricks/private-aesy-sub003/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for all databases (always absolute)
	FxAPIBaseURL  string // Live FX quote endpoint (last-resort fallback)
	ProviderURL   string // Market data provider base URL
	ProviderKey   string // Market data provider API key
	GeminiAPIKey  string // Classifier backend key (optional)
	GeminiModel   string
	LogLevel      string
	Port          int
	DevMode       bool
	WatchedPairs  []string // Pairs refreshed by the daily FX snapshot job
	MarginPercent float64  // Default margin of safety for buy prices
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("AESY_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:       absDataDir,
		Port:          getEnvAsInt("AESY_PORT", 8010),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		FxAPIBaseURL:  getEnv("FX_API_BASE_URL", "https://api.exchangerate-api.com/v4/latest"),
		ProviderURL:   getEnv("PROVIDER_BASE_URL", "https://financialmodelingprep.com/api/v3"),
		ProviderKey:   getEnv("PROVIDER_API_KEY", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		WatchedPairs:  watchedPairs(),
		MarginPercent: getEnvAsFloat("MARGIN_OF_SAFETY", 20.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	// Provider key is optional: analyses can run on caller-supplied
	// fundamentals without ever touching the provider.
	if c.MarginPercent < 0 || c.MarginPercent >= 100 {
		return fmt.Errorf("margin of safety must be in [0, 100), got %.2f", c.MarginPercent)
	}
	return nil
}

// watchedPairs returns the FX pairs the snapshot job keeps current.
// AESY_FX_PAIRS overrides the defaults with a comma-separated list of
// BASE:TARGET entries.
func watchedPairs() []string {
	if pairs := utils.ParseCSV(os.Getenv("AESY_FX_PAIRS")); pairs != nil {
		return pairs
	}
	return []string{
		"USD:EUR", "EUR:USD",
		"GBP:EUR", "CHF:EUR", "JPY:EUR",
		"GBP:USD", "CHF:USD", "JPY:USD",
	}
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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
