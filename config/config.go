package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: backend API client configuration
//   - state.go: local state storage configuration
//   - metrics.go: StatsD metrics emission configuration
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, relaxed guardrails).
	// Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// API is the backend REST API client configuration.
	API APIConfig

	// State is the local state storage configuration.
	State StateConfig

	// Metrics is the StatsD metrics emission configuration.
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.State.Sanitize()
	c.Metrics.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks the WARDVIEW_ENV variable as a fallback for DEV.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		envName := strings.ToLower(os.Getenv("WARDVIEW_ENV"))
		c.IsDev = envName == "development" || envName == "dev"
	}
}
