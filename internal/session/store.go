package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

var _ ports.TokenStore = (*Store)(nil)

// ErrEmptyToken is returned by SetSession for a blank token.
var ErrEmptyToken = errors.New("session token cannot be empty")

// Store is the Token Store of one request. Writes are visible to later reads on the
// same Store and reach the browser as Set-Cookie headers.
type Store struct {
	m *Manager
	w http.ResponseWriter
	r *http.Request

	mu     sync.Mutex
	loaded bool
	fields domainauth.Fields
	id     string // redis session id, empty in cookie mode
}

// GetToken returns the stored bearer token, or "" when there is none or it cannot be read.
func (s *Store) GetToken(ctx context.Context) string {
	return s.GetSession(ctx).Token
}

// GetSession returns the token and cached identity. The identity is dropped when no
// token is stored, since it cannot be trusted on its own.
func (s *Store) GetSession(ctx context.Context) domainauth.PersistedSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := domainauth.SessionFromFields(s.loadLocked(ctx))
	if !sess.HasToken() {
		return domainauth.PersistedSession{}
	}
	return sess
}

// SetSession replaces the stored session with token and identity. Identity keys that
// the new identity does not carry are removed rather than left over from a previous one.
func (s *Store) SetSession(ctx context.Context, token string, identity domainauth.Identity) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	fields := domainauth.SessionFields(token, identity)
	ttl := s.m.ttlFor(token)

	switch s.m.backend {
	case BackendRedis:
		id := s.id
		if id == "" {
			id = s.m.newID()
		}
		if err := s.m.records.Save(ctx, id, fields, ttl); err != nil {
			return fmt.Errorf("save session record: %w", err)
		}
		value, err := s.m.encode(map[string]string{cookieIDKey: id})
		if err != nil {
			return err
		}
		s.m.writeCookie(s.w, s.r, value, ttl)
		s.id = id
	default:
		value, err := s.m.encode(fields)
		if err != nil {
			return err
		}
		s.m.writeCookie(s.w, s.r, value, ttl)
	}

	s.fields = fields
	return nil
}

// ClearSession removes every session key and expires the cookie. Calling it with
// nothing stored is a no-op apart from the expiring cookie.
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)

	var err error
	if s.m.backend == BackendRedis && s.id != "" {
		if delErr := s.m.records.Delete(ctx, s.id); delErr != nil {
			err = fmt.Errorf("delete session record: %w", delErr)
		}
	}

	if s.hadCookie() || len(s.fields) > 0 {
		s.m.clearCookie(s.w, s.r)
	}
	s.fields = domainauth.Fields{}
	s.id = ""
	return err
}

// Fields returns a copy of the stored fields, for diagnostics and tests.
func (s *Store) Fields(ctx context.Context) domainauth.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.loadLocked(ctx))
}

func (s *Store) hadCookie() bool {
	_, err := s.r.Cookie(s.m.cookieName)
	return err == nil
}

// loadLocked reads the session on first use. Read failures are logged and
// treated as an empty session.
func (s *Store) loadLocked(ctx context.Context) domainauth.Fields {
	if s.loaded {
		return s.fields
	}
	s.loaded = true
	s.fields = domainauth.Fields{}

	values, err := s.m.decode(s.r)
	if err != nil {
		s.m.logger.DebugContext(ctx, "ignoring unreadable session cookie", "error", err)
		return s.fields
	}
	if values == nil {
		return s.fields
	}

	if s.m.backend != BackendRedis {
		s.fields = domainauth.Fields(values)
		return s.fields
	}

	id := strings.TrimSpace(values[cookieIDKey])
	if id == "" {
		return s.fields
	}
	fields, err := s.m.records.Load(ctx, id)
	switch {
	case err == nil:
		s.fields = fields
		s.id = id
	case apperrors.IsNotFound(err):
		// Expired or cleared elsewhere; keep the id so ClearSession still expires the cookie.
		s.id = id
	default:
		s.m.logger.WarnContext(ctx, "session record load failed", "error", err)
	}
	return s.fields
}
