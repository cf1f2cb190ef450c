package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseURL    string
	QuoteAPIURL    string
	UniverseAPIURL string
	LogLevel       string
	Port           int
	DevMode        bool

	// Cron expressions for the nightly background jobs
	AnalysisSchedule string
	ScreenerSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8080),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost port=5432 user=postgres password=postgres dbname=financo sslmode=disable"),
		QuoteAPIURL:      getEnv("QUOTE_API_URL", "https://query1.finance.yahoo.com"),
		UniverseAPIURL:   getEnv("UNIVERSE_API_URL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AnalysisSchedule: getEnv("ANALYSIS_SCHEDULE", "0 0 3 * * *"), // 3 AM daily
		ScreenerSchedule: getEnv("SCREENER_SCHEDULE", "0 30 3 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.QuoteAPIURL == "" {
		return fmt.Errorf("QUOTE_API_URL is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port")
	}

	return nil
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
