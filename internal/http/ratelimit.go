package httpx

import (
	"net"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// LoginLimiterConfig configures a LoginLimiter.
type LoginLimiterConfig struct {
	// PerMinute is the sustained number of attempts allowed per client.
	PerMinute int
	// CacheSize bounds the number of tracked clients; the least recently seen are evicted.
	CacheSize int
	// TrustForwarded keys clients by the first X-Forwarded-For hop instead of the peer address.
	TrustForwarded bool
}

// LoginLimiter throttles sign-in attempts per client address.
type LoginLimiter struct {
	limit          rate.Limit
	burst          int
	trustForwarded bool
	clients        *lru.Cache[string, *rate.Limiter]
}

// NewLoginLimiter builds a limiter. PerMinute <= 0 disables limiting and returns nil,
// which Allow treats as "always allowed".
func NewLoginLimiter(cfg LoginLimiterConfig) (*LoginLimiter, error) {
	if cfg.PerMinute <= 0 {
		return nil, nil //nolint:nilnil // nil limiter means disabled
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 10000
	}
	cache, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}
	return &LoginLimiter{
		limit:          rate.Every(time.Minute / time.Duration(cfg.PerMinute)),
		burst:          cfg.PerMinute,
		trustForwarded: cfg.TrustForwarded,
		clients:        cache,
	}, nil
}

// Allow reports whether the client behind r may attempt another sign-in now.
func (l *LoginLimiter) Allow(r *http.Request) bool {
	if l == nil {
		return true
	}
	key := l.clientKey(r)
	lim, ok := l.clients.Get(key)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		// A concurrent first attempt may have added one already; keep that.
		if prev, found, _ := l.clients.PeekOrAdd(key, lim); found {
			lim = prev
		}
	}
	return lim.Allow()
}

func (l *LoginLimiter) clientKey(r *http.Request) string {
	if l.trustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
