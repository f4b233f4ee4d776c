package session

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryTokenStore()

	if got := s.GetToken(ctx); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	id := domainauth.Identity{UserID: 1, Email: "a@example.com", Role: domainauth.RoleAdmin}
	if err := s.SetSession(ctx, "tok", id); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	sess := s.GetSession(ctx)
	if sess.Token != "tok" || sess.CachedIdentity == nil || sess.CachedIdentity.Email != "a@example.com" {
		t.Fatalf("unexpected session %+v", sess)
	}

	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("second ClearSession: %v", err)
	}
	if s.ClearCalls != 2 || s.SetCalls != 1 {
		t.Fatalf("unexpected call counts set=%d clear=%d", s.SetCalls, s.ClearCalls)
	}
	if len(s.Fields()) != 0 {
		t.Fatalf("expected no fields after clear, got %v", s.Fields())
	}
}

func TestMemoryTokenStoreHidesTokenlessIdentity(t *testing.T) {
	s := NewMemoryTokenStore()
	s.Put(domainauth.FieldUserRole, "ADMIN")
	if sess := s.GetSession(context.Background()); sess.CachedIdentity != nil {
		t.Fatalf("identity without token must not be returned: %+v", sess)
	}
}

func TestMemoryRecordStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryRecordStore()
	m.Now = func() time.Time { return now }

	if err := m.Save(ctx, "id", domainauth.Fields{"authToken": "t"}, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := m.Load(ctx, "id"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Load(ctx, "id"); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found after expiry, got %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expired record should be evicted on load")
	}
	if err := m.Save(ctx, "", nil, time.Minute); err == nil {
		t.Fatal("expected error for empty id")
	}
}
