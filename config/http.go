package config

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the externally visible URL of the application (e.g., "https://time.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session, CSRF and notice cookies.
	// Leave empty to use the request host.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SecureCookies forces the Secure flag even when requests arrive over plain HTTP.
	SecureCookies bool `env:"APP_SECURE_COOKIES" envDefault:"false"`

	// TrustForwarded makes the login limiter key clients by X-Forwarded-For.
	TrustForwarded bool `env:"HTTP_TRUST_FORWARDED" envDefault:"false"`

	// CompressionEnabled enables gzip compression for text-based responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	// Default is 6 (standard gzip default).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	h.CookieDomain = strings.ToLower(strings.TrimSpace(h.CookieDomain))

	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
}

// Validate rejects a cookie domain that browsers would refuse or share with unrelated sites.
func (h *HTTPConfig) Validate() error {
	if h.Addr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	return ValidateCookieDomain(h.CookieDomain)
}

// ValidateCookieDomain accepts an empty domain (host-only cookies) or any domain
// that is not itself a public suffix such as "com" or "github.io".
func ValidateCookieDomain(domain string) error {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if d == "" {
		return nil
	}
	if strings.ContainsAny(d, " /:") {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is not a domain name", domain)
	}
	suffix, icann := publicsuffix.PublicSuffix(d)
	if suffix == d && (icann || strings.Contains(d, ".")) {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix", domain)
	}
	return nil
}
