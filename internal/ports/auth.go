package ports

// Package ports defines interfaces (hexagonal ports) for session and API behavior.
// Implementations live in internal/adapters and internal/session; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
)

// TokenStore wraps the persisted bearer token and cached identity fields of one browser session.
type TokenStore interface {
	// GetToken returns the stored token or "". It never fails; unreadable storage reads as absent.
	GetToken(ctx context.Context) string

	// GetSession returns the token together with the cached identity, if any.
	GetSession(ctx context.Context) domainauth.PersistedSession

	// SetSession writes the token and each identity field individually, replacing prior values.
	SetSession(ctx context.Context, token string, identity domainauth.Identity) error

	// ClearSession removes every session key. Calling it with nothing stored is not an error.
	ClearSession(ctx context.Context) error
}

// RecordStore keeps session fields server-side under an opaque session id.
type RecordStore interface {
	// Load returns the stored fields. A missing record yields an error satisfying IsNotFound.
	Load(ctx context.Context, id string) (domainauth.Fields, error)

	// Save replaces the record and sets its time to live.
	Save(ctx context.Context, id string, fields domainauth.Fields, ttl time.Duration) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
}

// WhoAmIClient exchanges a bearer token for the current user's profile.
type WhoAmIClient interface {
	WhoAmI(ctx context.Context, token string) (*model.WhoAmI, error)
}

// LoginClient forwards credentials to the API's login endpoint.
type LoginClient interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResult, error)
}
