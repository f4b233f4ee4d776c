package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

const testHashKey = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("API_BASE_URL", "http://localhost:8081/")
	t.Setenv("SESSION_HASH_KEY", testHashKey)
}

func TestConfig_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("NODE_ENV", "")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.API.BaseURL != "http://localhost:8081" {
		t.Errorf("API.BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.API.RateLimit != 50 || cfg.API.RateBurst != 100 {
		t.Errorf("API rate = %v/%d, want 50/100", cfg.API.RateLimit, cfg.API.RateBurst)
	}
	if cfg.Session.Backend != SessionBackendCookie || cfg.Session.UsesRedis() {
		t.Errorf("Session.Backend = %q, want cookie", cfg.Session.Backend)
	}
	if cfg.Session.CookieName != "optitrack_session" {
		t.Errorf("Session.CookieName = %q", cfg.Session.CookieName)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Errorf("Session.TTL = %v, want 12h", cfg.Session.TTL)
	}
	if cfg.Login.RateLimit != 10 {
		t.Errorf("Login.RateLimit = %d, want 10", cfg.Login.RateLimit)
	}
	if cfg.Redis.KeyPrefix != "session:" {
		t.Errorf("Redis.KeyPrefix = %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Observability.Metrics.IsEnabled() {
		t.Errorf("metrics should be off by default")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.IsDev {
		t.Errorf("IsDev should default to false")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("SESSION_BACKEND", " Redis ")
	t.Setenv("SESSION_BLOCK_KEY", "0123456789abcdef")
	t.Setenv("REDIS_URI", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOGIN_RATE_LIMIT", "0")
	t.Setenv("METRICS_BACKEND", "prometheus")
	t.Setenv("LOG_LEVEL", "DEBUG")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("API.Timeout = %v, want 3s", cfg.API.Timeout)
	}
	if !cfg.Session.UsesRedis() {
		t.Errorf("Session.Backend = %q, want redis", cfg.Session.Backend)
	}
	want := RedisConfig{URI: "redis:6379", DB: 2, KeyPrefix: "session:"}
	if !reflect.DeepEqual(cfg.Redis, want) {
		t.Errorf("Redis = %#v, want %#v", cfg.Redis, want)
	}
	if cfg.Login.RateLimit != 0 {
		t.Errorf("Login.RateLimit = %d, want 0 (disabled)", cfg.Login.RateLimit)
	}
	if cfg.Observability.Metrics.Backend != MetricsBackendPrometheus {
		t.Errorf("Metrics.Backend = %q", cfg.Observability.Metrics.Backend)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestConfig_RequiredSettings(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_HASH_KEY", "")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected an error when required settings are missing")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() AppConfig {
		cfg := AppConfig{
			HTTP:    HTTPConfig{Addr: ":8080"},
			API:     APIConfig{BaseURL: "https://api.example.com"},
			Session: SessionConfig{HashKey: testHashKey},
		}
		cfg.Sanitize()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"relative api url", func(c *AppConfig) { c.API.BaseURL = "/api" }, "API_BASE_URL"},
		{"ftp api url", func(c *AppConfig) { c.API.BaseURL = "ftp://api.example.com" }, "API_BASE_URL"},
		{"short hash key", func(c *AppConfig) { c.Session.HashKey = "short" }, "SESSION_HASH_KEY"},
		{"odd block key", func(c *AppConfig) { c.Session.BlockKey = "abc" }, "SESSION_BLOCK_KEY"},
		{"unknown backend", func(c *AppConfig) { c.Session.Backend = "memcached" }, "SESSION_BACKEND"},
		{"unknown metrics", func(c *AppConfig) { c.Observability.Metrics.Backend = "graphite" }, "METRICS_BACKEND"},
		{"public suffix cookie domain", func(c *AppConfig) { c.HTTP.CookieDomain = "co.uk" }, "public suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCookieDomain(t *testing.T) {
	tests := []struct {
		domain string
		ok     bool
	}{
		{"", true},
		{"example.com", true},
		{".example.com", true},
		{"time.example.co.uk", true},
		{"localhost", true},
		{"com", false},
		{".co.uk", false},
		{"github.io", false},
		{"example.com:8080", false},
	}
	for _, tt := range tests {
		err := ValidateCookieDomain(tt.domain)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateCookieDomain(%q) error = %v, want ok=%v", tt.domain, err, tt.ok)
		}
	}
}

func TestConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := AppConfig{}
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Fatal("expected NODE_ENV=development to enable dev mode")
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 42, BaseURL: "https://time.example.com/", CookieDomain: " Example.COM "}
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Errorf("CompressionLevel = %d, want 9", cfg.CompressionLevel)
	}
	if cfg.BaseURL != "https://time.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.CookieDomain != "example.com" {
		t.Errorf("CookieDomain = %q", cfg.CookieDomain)
	}

	cfg = HTTPConfig{CompressionLevel: 0}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Errorf("CompressionLevel = %d, want 1", cfg.CompressionLevel)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Backend: "StatsD", StatsdAddress: " "}
	cfg.Sanitize()
	if cfg.IsEnabled() {
		t.Fatalf("expected statsd without an address to be disabled")
	}

	cfg = ObservabilityMetricsConfig{Backend: "statsd", StatsdAddress: " statsd:1234 "}
	cfg.Sanitize()
	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}
