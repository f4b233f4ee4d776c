package redis

// Package redis provides Redis-based adapters for the OptiTrack UI.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session records.
const DefaultKeyPrefix = "session:"

var _ ports.RecordStore = (*SessionStore)(nil)

// ErrNotFound is returned when a session record does not exist or has expired.
var ErrNotFound = apperrors.NotFound("session not found")

// SessionStore keeps session fields in a redis hash, one hash field per session key.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a redis record store using DefaultKeyPrefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, DefaultKeyPrefix)
}

// NewSessionStoreWithPrefix creates a redis record store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Load returns every field of the record.
func (s *SessionStore) Load(ctx context.Context, id string) (domainauth.Fields, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	vals, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	// HGETALL on a missing key is an empty map, not redis.Nil.
	if len(vals) == 0 {
		return nil, ErrNotFound
	}
	return domainauth.Fields(vals), nil
}

// Save replaces the record with fields and applies ttl. Stale keys from a previous
// identity are dropped in the same transaction.
func (s *SessionStore) Save(ctx context.Context, id string, fields domainauth.Fields, ttl time.Duration) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	key := s.key(id)
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// Delete removes the record. Missing records are ignored.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// TTL reports the remaining lifetime of a record; zero when it has none or is missing.
func (s *SessionStore) TTL(ctx context.Context, id string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, s.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}
