package config

import "strings"

// RedisConfig contains Redis configuration for the redis session backend.
type RedisConfig struct {
	URI       string `env:"URI"        envDefault:"localhost:6379"`
	Password  string `env:"PASSWORD"   envDefault:""`
	DB        int    `env:"DB"         envDefault:"0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"session:"`
}

// Sanitize trims the address and restores the default prefix.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	if c.KeyPrefix = strings.TrimSpace(c.KeyPrefix); c.KeyPrefix == "" {
		c.KeyPrefix = "session:"
	}
	if c.DB < 0 {
		c.DB = 0
	}
}
