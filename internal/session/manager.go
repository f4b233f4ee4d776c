// Package session implements the request-scoped Token Store over a signed cookie
// or a redis record addressed by a signed session-id cookie.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/optitrack/optitrack-ui/internal/ports"
)

// Backend selects where session fields are kept.
type Backend string

const (
	// BackendCookie keeps every field in one signed (optionally encrypted) cookie.
	BackendCookie Backend = "cookie"
	// BackendRedis keeps fields in a redis hash; the cookie carries only the session id.
	BackendRedis Backend = "redis"
)

const (
	// DefaultCookieName is the session cookie name.
	DefaultCookieName = "optitrack_session"
	// DefaultTTL applies when the token carries no usable expiry.
	DefaultTTL = 12 * time.Hour
	// cookieIDKey is the field holding the session id in redis mode.
	cookieIDKey = "sid"
)

// ParseBackend accepts "cookie" or "redis" in any case. Empty selects the cookie backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendCookie:
		return BackendCookie, nil
	case BackendRedis:
		return BackendRedis, nil
	default:
		return "", fmt.Errorf("unknown session backend %q", s)
	}
}

// Config configures a Manager.
type Config struct {
	Backend       Backend
	CookieName    string
	CookieDomain  string
	SecureCookies bool // force Secure even when the request does not look like HTTPS
	HashKey       []byte
	BlockKey      []byte // optional; enables cookie encryption
	TTL           time.Duration
	Records       ports.RecordStore // required for BackendRedis
	Logger        *slog.Logger
	Now           func() time.Time
	NewID         func() string
}

// Manager opens per-request Stores. It is safe for concurrent use.
type Manager struct {
	backend    Backend
	cookieName string
	domain     string
	secure     bool
	ttl        time.Duration
	codec      *securecookie.SecureCookie
	records    ports.RecordStore
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewManager validates cfg and builds a Manager.
func NewManager(cfg Config) (*Manager, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendCookie
	}
	if backend != BackendCookie && backend != BackendRedis {
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
	if backend == BackendRedis && cfg.Records == nil {
		return nil, errors.New("redis session backend requires a record store")
	}
	if len(cfg.HashKey) < 32 {
		return nil, errors.New("session hash key must be at least 32 bytes")
	}
	switch len(cfg.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, errors.New("session block key must be 16, 24 or 32 bytes")
	}

	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = DefaultCookieName
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}

	var blockKey []byte
	if len(cfg.BlockKey) > 0 {
		blockKey = cfg.BlockKey
	}
	codec := securecookie.New(cfg.HashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{
		backend:    backend,
		cookieName: name,
		domain:     strings.TrimSpace(cfg.CookieDomain),
		secure:     cfg.SecureCookies,
		ttl:        ttl,
		codec:      codec,
		records:    cfg.Records,
		logger:     logger.With("component", "session"),
		now:        now,
		newID:      newID,
	}, nil
}

// Backend reports the configured backend.
func (m *Manager) Backend() Backend { return m.backend }

// CookieName reports the session cookie name.
func (m *Manager) CookieName() string { return m.cookieName }

// Open returns the Token Store for one request. Nothing is read until first use.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) *Store {
	return &Store{m: m, w: w, r: r}
}

// isSecure mirrors the request's scheme, honouring a TLS-terminating proxy.
func (m *Manager) isSecure(r *http.Request) bool {
	return m.secure || r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func (m *Manager) writeCookie(w http.ResponseWriter, r *http.Request, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.domain,
		HttpOnly: true,
		Secure:   m.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   max(int(ttl.Seconds()), 1),
		Expires:  m.now().Add(ttl),
	})
}

// clearCookie expires the session cookie with the same attributes used to set it.
func (m *Manager) clearCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.domain,
		HttpOnly: true,
		Secure:   m.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

func (m *Manager) encode(v map[string]string) (string, error) {
	encoded, err := m.codec.Encode(m.cookieName, v)
	if err != nil {
		return "", fmt.Errorf("securecookie encode: %w", err)
	}
	return encoded, nil
}

// decode reads and verifies the session cookie. A missing cookie is (nil, nil).
func (m *Manager) decode(r *http.Request) (map[string]string, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session cookie: %w", err)
	}
	out := map[string]string{}
	if err := m.codec.Decode(m.cookieName, c.Value, &out); err != nil {
		return nil, fmt.Errorf("securecookie decode: %w", err)
	}
	return out, nil
}
