package session

// Package session contains simple hand-written test doubles for the session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore  = (*MemoryTokenStore)(nil)
	_ ports.RecordStore = (*MemoryRecordStore)(nil)
)

// ErrNotFound is returned by MemoryRecordStore for missing or expired records.
var ErrNotFound = apperrors.NotFound("session not found")

// MemoryTokenStore is an in-memory Token Store backed by the same field layout as the real stores.
// Set SetErr or ClearErr to simulate storage failures.
type MemoryTokenStore struct {
	mu     sync.Mutex
	fields domainauth.Fields

	SetErr   error
	ClearErr error

	SetCalls   int
	ClearCalls int
}

// NewMemoryTokenStore creates an empty store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{fields: domainauth.Fields{}}
}

// NewMemoryTokenStoreWith creates a store preloaded with token and, when non-nil, identity.
func NewMemoryTokenStoreWith(token string, identity *domainauth.Identity) *MemoryTokenStore {
	s := NewMemoryTokenStore()
	if identity != nil {
		s.fields = domainauth.SessionFields(token, *identity)
	} else if token != "" {
		s.fields[domainauth.FieldAuthToken] = token
	}
	return s
}

// Put writes a raw field, bypassing SetSession. Useful for partial or corrupt sessions.
func (s *MemoryTokenStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[key] = value
}

// Fields returns a copy of the stored fields.
func (s *MemoryTokenStore) Fields() domainauth.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.fields)
}

func (s *MemoryTokenStore) GetToken(ctx context.Context) string {
	return s.GetSession(ctx).Token
}

func (s *MemoryTokenStore) GetSession(_ context.Context) domainauth.PersistedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := domainauth.SessionFromFields(s.fields)
	if !sess.HasToken() {
		return domainauth.PersistedSession{}
	}
	return sess
}

func (s *MemoryTokenStore) SetSession(_ context.Context, token string, identity domainauth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCalls++
	if s.SetErr != nil {
		return s.SetErr
	}
	if token == "" {
		return errors.New("session token cannot be empty")
	}
	s.fields = domainauth.SessionFields(token, identity)
	return nil
}

func (s *MemoryTokenStore) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.fields = domainauth.Fields{}
	return nil
}

type record struct {
	fields    domainauth.Fields
	expiresAt time.Time
}

// MemoryRecordStore is an in-memory RecordStore honouring TTLs against Now.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]record

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewMemoryRecordStore creates an empty record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]record)}
}

func (m *MemoryRecordStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MemoryRecordStore) Load(_ context.Context, id string) (domainauth.Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || !m.now().Before(rec.expiresAt) {
		delete(m.records, id)
		return nil, ErrNotFound
	}
	return maps.Clone(rec.fields), nil
}

func (m *MemoryRecordStore) Save(_ context.Context, id string, fields domainauth.Fields, ttl time.Duration) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session is expired")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = record{fields: maps.Clone(fields), expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryRecordStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// Len reports how many records are stored, expired ones included.
func (m *MemoryRecordStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
