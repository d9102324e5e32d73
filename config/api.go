package config

import (
	"strings"
	"time"
)

// APIConfig contains configuration for the backend REST API client.
type APIConfig struct {
	// BaseURL is the root of the backend REST API, without a trailing slash.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://127.0.0.1:8000/api"`

	// Timeout bounds every outbound request, including the body read.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`

	// UserAgent is sent with every request so backend logs can attribute
	// traffic to the console client.
	UserAgent string `env:"API_USER_AGENT" envDefault:"wardview-console"`

	// RefreshSkew is how close to the access token expiry the client
	// refreshes proactively instead of waiting for a 401.
	RefreshSkew time.Duration `env:"API_REFRESH_SKEW" envDefault:"30s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimSuffix(strings.TrimSpace(a.BaseURL), "/")

	// Never allow an unbounded or sub-second outbound call.
	if a.Timeout < time.Second {
		a.Timeout = 30 * time.Second
	}
	if a.RefreshSkew < 0 {
		a.RefreshSkew = 0
	}
	if a.UserAgent == "" {
		a.UserAgent = "wardview-console"
	}
}
