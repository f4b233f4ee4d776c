package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// APIConfig configures the client for the OptiTrack REST API.
type APIConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:8081".
	BaseURL string `env:"BASE_URL,required,notEmpty"`

	// Timeout bounds each request, including reading the body.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// RateLimit is the sustained requests per second across all users. Zero disables limiting.
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"50"`

	// RateBurst is the number of requests allowed above RateLimit in a burst.
	RateBurst int `env:"RATE_BURST" envDefault:"100"`

	// PageFanout bounds concurrent per-employee API calls on list pages.
	PageFanout int `env:"PAGE_FANOUT" envDefault:"8"`

	// ActivityLimit is how many entries the admin activity feed shows.
	ActivityLimit int `env:"ACTIVITY_LIMIT" envDefault:"10"`
}

// Sanitize trims the base URL and clamps the numeric settings.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}
	if c.RateBurst < 1 {
		c.RateBurst = 1
	}
	if c.PageFanout < 1 {
		c.PageFanout = 1
	}
	if c.ActivityLimit < 1 {
		c.ActivityLimit = 10
	}
}

// Validate requires an absolute http(s) base URL.
func (c *APIConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("API_BASE_URL %q must be an absolute http(s) URL", c.BaseURL)
	}
	return nil
}
