package config

import (
	"os"
	"testing"
	"time"

	"github.com/aristath/frontier/internal/clients/yahoo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inEmptyDir runs the test from a directory without a .env file.
func inEmptyDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	inEmptyDir(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 8001, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Empty(t, cfg.Frontier.Tickers)
	assert.Equal(t, 0.05, cfg.Frontier.TargetMin)
	assert.Equal(t, 0.25, cfg.Frontier.TargetMax)
	assert.Equal(t, 10, cfg.Frontier.TargetSteps)
	assert.Equal(t, 5, cfg.Frontier.LookbackYears)
	assert.Equal(t, 252, cfg.Frontier.PeriodsPerYear)
	assert.Equal(t, 0, cfg.Frontier.MaxWorkers)
	assert.Equal(t, "@daily", cfg.Frontier.RefreshSchedule)
	assert.Equal(t, yahoo.DefaultBaseURL, cfg.Yahoo.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Yahoo.Timeout)
}

func TestLoad_FromEnv(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GO_PORT", "9100")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("FRONTIER_TICKERS", " spy, tlt ,,gld")
	t.Setenv("FRONTIER_RISK_FREE_RATE", "0.035")
	t.Setenv("FRONTIER_INCLUDE_RISK_FREE", "1")
	t.Setenv("FRONTIER_TARGET_STEPS", "4")
	t.Setenv("FRONTIER_MAX_WORKERS", "2")
	t.Setenv("FRONTIER_REFRESH_SCHEDULE", "")
	t.Setenv("YAHOO_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, []string{"SPY", "TLT", "GLD"}, cfg.Frontier.Tickers)
	assert.Equal(t, 0.035, cfg.Frontier.RiskFreeRate)
	assert.True(t, cfg.Frontier.IncludeRiskFree)
	assert.Equal(t, 4, cfg.Frontier.TargetSteps)
	assert.Equal(t, 2, cfg.Frontier.MaxWorkers)
	assert.Empty(t, cfg.Frontier.RefreshSchedule, "explicitly empty disables the refresh")
	assert.Equal(t, 5*time.Second, cfg.Yahoo.Timeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("GO_PORT", "not-a-port")
	t.Setenv("FRONTIER_TARGET_MIN", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, 0.05, cfg.Frontier.TargetMin)
}

func TestLoad_ValidationError(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("FRONTIER_TARGET_MIN", "0.3")
	t.Setenv("FRONTIER_TARGET_MAX", "0.1")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port: 8001,
			Frontier: FrontierConfig{
				TargetMin: 0.05, TargetMax: 0.25, TargetSteps: 10, LookbackYears: 5, PeriodsPerYear: 252,
			},
			Yahoo: YahooConfig{Timeout: time.Second},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"min above max", func(c *Config) { c.Frontier.TargetMin = 1 }},
		{"steps", func(c *Config) { c.Frontier.TargetSteps = 0 }},
		{"periods", func(c *Config) { c.Frontier.PeriodsPerYear = 0 }},
		{"lookback", func(c *Config) { c.Frontier.LookbackYears = 0 }},
		{"workers", func(c *Config) { c.Frontier.MaxWorkers = -1 }},
		{"timeout", func(c *Config) { c.Yahoo.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
