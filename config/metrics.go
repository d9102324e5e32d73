package config

import "strings"

// MetricsConfig contains StatsD metrics emission configuration.
// Disabled by default; most single-workstation installs have no collector.
type MetricsConfig struct {
	// Enabled turns on metric emission.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// Address is the UDP address of the StatsD collector.
	Address string `env:"ADDRESS" envDefault:"localhost:8125"`

	// Prefix is prepended to every metric name.
	Prefix string `env:"PREFIX" envDefault:"wardview"`
}

// Sanitize applies guardrails to metrics configuration values.
func (m *MetricsConfig) Sanitize() {
	if strings.TrimSpace(m.Address) == "" {
		m.Enabled = false
	}
	m.Prefix = strings.Trim(strings.TrimSpace(m.Prefix), ".")
}
