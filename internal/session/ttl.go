package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry returns the token's "exp" claim when it parses as a JWT.
// The signature is not checked; the API verifies tokens on every call.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ttlFor is how long a session holding token should live: until the token expires,
// or the configured TTL when the token has no usable expiry.
func (m *Manager) ttlFor(token string) time.Duration {
	exp, ok := tokenExpiry(token)
	if !ok {
		return m.ttl
	}
	if remaining := exp.Sub(m.now()); remaining > 0 {
		return remaining
	}
	return m.ttl
}
