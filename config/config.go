package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: upstream OptiTrack API client
//   - http.go: HTTP server configuration
//   - session.go: session cookies, token store and login throttling
//   - redis.go: redis connection for the redis session backend
//   - observability.go: metrics backend
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, asset caching).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP    HTTPConfig
	API     APIConfig `envPrefix:"API_"`
	Session SessionConfig
	Login   LoginConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	Observability ObservabilityConfig
}

// Load reads an optional .env file, parses the environment, then sanitizes and
// validates the result.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.HTTP.Sanitize()
	c.API.Sanitize()
	c.Session.Sanitize()
	c.Login.Sanitize()
	c.Redis.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// Validate reports every invalid setting at once.
func (c *AppConfig) Validate() error {
	return errors.Join(
		c.HTTP.Validate(),
		c.API.Validate(),
		c.Session.Validate(),
		c.Observability.Validate(),
	)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
