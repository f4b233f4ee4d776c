package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Session backends.
const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

// SessionConfig configures where the bearer token and cached identity are kept.
type SessionConfig struct {
	// Backend is "cookie" (signed cookie holds everything) or "redis" (cookie holds an id).
	Backend string `env:"SESSION_BACKEND" envDefault:"cookie"`

	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"optitrack_session"`

	// HashKey signs the session cookie. At least 32 bytes.
	HashKey string `env:"SESSION_HASH_KEY,required,notEmpty"`

	// BlockKey encrypts the session cookie when set. 16, 24 or 32 bytes.
	BlockKey string `env:"SESSION_BLOCK_KEY"`

	// TTL is used when the token carries no readable expiry.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// Sanitize normalizes the backend name and falls back to defaults for blank values.
func (c *SessionConfig) Sanitize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = SessionBackendCookie
	}
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = "optitrack_session"
	}
	if c.TTL <= 0 {
		c.TTL = 12 * time.Hour
	}
}

// Validate checks the backend and key lengths.
func (c *SessionConfig) Validate() error {
	var errs []error
	if c.Backend != SessionBackendCookie && c.Backend != SessionBackendRedis {
		errs = append(errs, fmt.Errorf("SESSION_BACKEND %q must be cookie or redis", c.Backend))
	}
	if len(c.HashKey) < 32 {
		errs = append(errs, errors.New("SESSION_HASH_KEY must be at least 32 bytes"))
	}
	switch len(c.BlockKey) {
	case 0, 16, 24, 32:
	default:
		errs = append(errs, errors.New("SESSION_BLOCK_KEY must be 16, 24 or 32 bytes"))
	}
	return errors.Join(errs...)
}

// UsesRedis reports whether sessions are kept in redis.
func (c *SessionConfig) UsesRedis() bool { return c.Backend == SessionBackendRedis }

// LoginConfig throttles sign-in attempts per client.
type LoginConfig struct {
	// RateLimit is attempts per minute per client. Zero disables throttling.
	RateLimit int `env:"LOGIN_RATE_LIMIT" envDefault:"10"`

	// CacheSize bounds the number of clients tracked by the limiter.
	CacheSize int `env:"LOGIN_RATE_CACHE_SIZE" envDefault:"10000"`
}

// Sanitize clamps negative values.
func (c *LoginConfig) Sanitize() {
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 10000
	}
}
