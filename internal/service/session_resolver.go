package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

var errEmptyProfile = errors.New("whoami returned no profile")

// SessionResolverOptions groups dependencies for SessionResolver.
type SessionResolverOptions struct {
	WhoAmI  ports.WhoAmIClient
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// SessionResolver turns a Token Store into a trusted identity. It trusts a complete
// cached identity and otherwise asks the API who the token belongs to. Every failure
// resolves to "no identity"; it never falls back to a default user.
type SessionResolver struct {
	whoami  ports.WhoAmIClient
	metrics metrics.Recorder
	logger  *slog.Logger
	group   singleflight.Group
}

// NewSessionResolver constructs a SessionResolver.
func NewSessionResolver(opts SessionResolverOptions) *SessionResolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionResolver{
		whoami:  opts.WhoAmI,
		metrics: metrics.OrNop(opts.Metrics),
		logger:  logger.With("component", "session_resolver"),
	}
}

// Resolution is the outcome of one resolution attempt.
type Resolution struct {
	Identity *domainauth.Identity
	Token    string
	// Outcome is one of the metrics.Session* constants.
	Outcome string
}

// Resolved reports whether an identity was found.
func (r Resolution) Resolved() bool { return r.Identity != nil }

// ResolveIdentity returns the current identity, or false when there is none.
func (s *SessionResolver) ResolveIdentity(ctx context.Context, store ports.TokenStore) (*domainauth.Identity, bool) {
	res := s.Resolve(ctx, store)
	return res.Identity, res.Resolved()
}

// Resolve performs the resolution and reports how it ended.
func (s *SessionResolver) Resolve(ctx context.Context, store ports.TokenStore) Resolution {
	res := s.resolve(ctx, store)
	s.metrics.SessionResolved(res.Outcome)
	return res
}

func (s *SessionResolver) resolve(ctx context.Context, store ports.TokenStore) Resolution {
	sess := store.GetSession(ctx)
	if !sess.HasToken() {
		return Resolution{Outcome: metrics.SessionAbsent}
	}
	token := sess.Token

	if cached := sess.CachedIdentity; cached != nil && cached.Complete() {
		id := cached.Normalized()
		return Resolution{Identity: &id, Token: token, Outcome: metrics.SessionCached}
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return s.handleWhoAmIError(ctx, store, err)
	}

	id, ok := identityFromProfile(profile)
	if !ok {
		s.logger.WarnContext(ctx, "whoami response missing required fields")
		return Resolution{Outcome: metrics.SessionMalformed}
	}

	if err := store.SetSession(ctx, token, id); err != nil {
		s.logger.WarnContext(ctx, "failed to cache resolved identity", "error", err)
	}
	s.logger.DebugContext(ctx, "session revalidated", "user_id", id.UserID, "role", id.Role)
	return Resolution{Identity: &id, Token: token, Outcome: metrics.SessionRevalidated}
}

// fetchProfile calls whoami, sharing one in-flight call between concurrent requests
// for the same token. The shared call is detached from any single caller's
// cancellation; each caller still stops waiting when its own context ends.
func (s *SessionResolver) fetchProfile(ctx context.Context, token string) (*model.WhoAmI, error) {
	ch := s.group.DoChan(token, func() (any, error) {
		return s.whoami.WhoAmI(context.WithoutCancel(ctx), token)
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.FromTransport(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		profile, _ := res.Val.(*model.WhoAmI)
		if profile == nil {
			return nil, apperrors.Wrap(errEmptyProfile, apperrors.ErrCodeUpstream, "empty whoami response")
		}
		return profile, nil
	}
}

// handleWhoAmIError clears the session only when the API answered with a non-2xx
// status. Network and decode failures leave it in place.
func (s *SessionResolver) handleWhoAmIError(ctx context.Context, store ports.TokenStore, err error) Resolution {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		if clearErr := store.ClearSession(ctx); clearErr != nil {
			s.logger.WarnContext(ctx, "failed to clear rejected session", "error", clearErr)
		}
		s.logger.InfoContext(ctx, "session rejected by api", "status", appErr.Status)
		return Resolution{Outcome: metrics.SessionInvalid}
	}

	s.logger.WarnContext(ctx, "whoami failed", "error", err)
	return Resolution{Outcome: metrics.SessionError}
}

// identityFromProfile requires id, role and email and normalizes the result.
func identityFromProfile(p *model.WhoAmI) (domainauth.Identity, bool) {
	if p == nil || p.ID == nil || p.Email == nil || p.Role == nil {
		return domainauth.Identity{}, false
	}
	id := domainauth.Identity{
		UserID:     *p.ID,
		Email:      strings.TrimSpace(*p.Email),
		Role:       domainauth.ParseRole(*p.Role),
		EmployeeID: p.EmployeeID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Department: p.Department,
	}.Normalized()
	if !id.Complete() {
		return domainauth.Identity{}, false
	}
	return id, true
}
