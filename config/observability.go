package config

import (
	"fmt"
	"strings"
)

// Metrics backends.
const (
	MetricsBackendNone       = "none"
	MetricsBackendStatsd     = "statsd"
	MetricsBackendPrometheus = "prometheus"
)

// ObservabilityConfig groups configuration that controls metrics emission.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// Validate checks the observability sub-configs.
func (c *ObservabilityConfig) Validate() error {
	return c.Metrics.Validate()
}

// ObservabilityMetricsConfig selects where metrics go: nowhere, a StatsD agent, or
// a Prometheus /metrics endpoint.
type ObservabilityMetricsConfig struct {
	Backend       string `env:"METRICS_BACKEND" envDefault:"none"`
	StatsdAddress string `env:"STATSD_ADDRESS"  envDefault:"127.0.0.1:8125"`
	StatsdPrefix  string `env:"STATSD_PREFIX"   envDefault:"optitrack_ui"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = MetricsBackendNone
	}
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.StatsdPrefix = strings.TrimSpace(c.StatsdPrefix)
	if c.Backend == MetricsBackendStatsd && c.StatsdAddress == "" {
		c.Backend = MetricsBackendNone
	}
}

// Validate rejects unknown backends.
func (c *ObservabilityMetricsConfig) Validate() error {
	switch c.Backend {
	case MetricsBackendNone, MetricsBackendStatsd, MetricsBackendPrometheus:
		return nil
	default:
		return fmt.Errorf("METRICS_BACKEND %q must be none, statsd or prometheus", c.Backend)
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Backend != MetricsBackendNone
}
