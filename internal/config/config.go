// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/frontier/internal/clients/yahoo"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel  string
	LogPretty bool
	Port      int
	DevMode   bool
	Frontier  FrontierConfig
	Yahoo     YahooConfig
}

// FrontierConfig holds the defaults of the scheduled frontier run and the
// optimizer API.
type FrontierConfig struct {
	Tickers         []string
	RiskFreeRate    float64
	IncludeRiskFree bool
	TargetMin       float64
	TargetMax       float64
	TargetSteps     int
	LookbackYears   int
	PeriodsPerYear  int
	MaxWorkers      int    // 0 = one goroutine per target return
	RefreshSchedule string // cron spec; empty disables the scheduled refresh
}

// YahooConfig configures the price history client.
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
		Port:      getEnvAsInt("GO_PORT", 8001),
		DevMode:   getEnvAsBool("DEV_MODE", false),
		Frontier: FrontierConfig{
			Tickers:         getEnvAsList("FRONTIER_TICKERS"),
			RiskFreeRate:    getEnvAsFloat("FRONTIER_RISK_FREE_RATE", 0),
			IncludeRiskFree: getEnvAsBool("FRONTIER_INCLUDE_RISK_FREE", false),
			TargetMin:       getEnvAsFloat("FRONTIER_TARGET_MIN", 0.05),
			TargetMax:       getEnvAsFloat("FRONTIER_TARGET_MAX", 0.25),
			TargetSteps:     getEnvAsInt("FRONTIER_TARGET_STEPS", 10),
			LookbackYears:   getEnvAsInt("FRONTIER_LOOKBACK_YEARS", 5),
			PeriodsPerYear:  getEnvAsInt("FRONTIER_PERIODS_PER_YEAR", 252),
			MaxWorkers:      getEnvAsInt("FRONTIER_MAX_WORKERS", 0),
			RefreshSchedule: os.Getenv("FRONTIER_REFRESH_SCHEDULE"),
		},
		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", yahoo.DefaultBaseURL),
			Timeout: time.Duration(getEnvAsInt("YAHOO_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}
	if _, set := os.LookupEnv("FRONTIER_REFRESH_SCHEDULE"); !set {
		cfg.Frontier.RefreshSchedule = "@daily"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configured values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	f := c.Frontier
	if f.TargetMin > f.TargetMax {
		return fmt.Errorf("FRONTIER_TARGET_MIN (%g) is greater than FRONTIER_TARGET_MAX (%g)", f.TargetMin, f.TargetMax)
	}
	if f.TargetSteps < 1 {
		return fmt.Errorf("FRONTIER_TARGET_STEPS must be at least 1, got %d", f.TargetSteps)
	}
	if f.PeriodsPerYear < 1 {
		return fmt.Errorf("FRONTIER_PERIODS_PER_YEAR must be at least 1, got %d", f.PeriodsPerYear)
	}
	if f.LookbackYears < 1 {
		return fmt.Errorf("FRONTIER_LOOKBACK_YEARS must be at least 1, got %d", f.LookbackYears)
	}
	if f.MaxWorkers < 0 {
		return fmt.Errorf("FRONTIER_MAX_WORKERS must not be negative, got %d", f.MaxWorkers)
	}
	if c.Yahoo.Timeout <= 0 {
		return fmt.Errorf("YAHOO_TIMEOUT_SECONDS must be positive")
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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

// getEnvAsList splits a comma-separated value, dropping empty items.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.ToUpper(item))
		}
	}
	return out
}
