package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Login   ports.LoginClient
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// AuthService signs users in and out by coordinating the API's login endpoint with the Token Store.
type AuthService struct {
	login   ports.LoginClient
	metrics metrics.Recorder
	logger  *slog.Logger
}

var errMissingToken = errors.New("login response carried no token")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		login:   opts.Login,
		metrics: metrics.OrNop(opts.Metrics),
		logger:  logger.With("component", "auth_service"),
	}
}

// LoginOutcome is the result of a successful sign-in.
type LoginOutcome struct {
	// Identity is what was persisted. It lacks the user id until the first resolution fills it in.
	Identity   domainauth.Identity
	RedirectTo string
}

// Login validates the credentials, forwards them to the API and persists the returned token.
// Any previous session in store is cleared first so a new sign-in never inherits old keys.
func (s *AuthService) Login(ctx context.Context, store ports.TokenStore, req model.LoginRequest) (*LoginOutcome, error) {
	if err := req.Validate(); err != nil {
		s.metrics.LoginAttempt(metrics.ResultInvalid)
		return nil, err
	}

	res, err := s.login.Login(ctx, req)
	if err != nil {
		s.metrics.LoginAttempt(loginResult(err))
		s.logger.InfoContext(ctx, "login rejected", "code", apperrors.GetCode(err))
		return nil, fmt.Errorf("login: %w", err)
	}
	if res == nil || strings.TrimSpace(res.Token) == "" {
		s.metrics.LoginAttempt(metrics.ResultError)
		return nil, apperrors.Wrap(errMissingToken, apperrors.ErrCodeUpstream, "Login failed. Please try again.")
	}

	first, last := model.SplitFullName(res.EmployeeFullName)
	identity := domainauth.Identity{
		Email:      req.Email,
		Role:       domainauth.ParseRole(res.Role),
		EmployeeID: res.EmployeeID,
		FirstName:  first,
		LastName:   last,
		Department: res.Department,
	}.Normalized()

	if clearErr := store.ClearSession(ctx); clearErr != nil {
		s.logger.WarnContext(ctx, "failed to clear previous session", "error", clearErr)
	}
	if err := store.SetSession(ctx, res.Token, identity); err != nil {
		s.metrics.LoginAttempt(metrics.ResultError)
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.metrics.LoginAttempt(metrics.ResultSuccess)
	s.logger.InfoContext(ctx, "user signed in", "role", identity.Role)
	return &LoginOutcome{Identity: identity, RedirectTo: LoginRedirect(identity.Role)}, nil
}

// Logout clears the session. It is safe to call when nobody is signed in.
func (s *AuthService) Logout(ctx context.Context, store ports.TokenStore) error {
	if err := store.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// LoginRedirect is where a freshly signed-in user lands: admins on the admin
// dashboard and everyone else on the employee dashboard.
func LoginRedirect(role domainauth.Role) string {
	if role.Is(domainauth.RoleAdmin) {
		return domainauth.AdminHomePath
	}
	return domainauth.EmployeeHomePath
}

func loginResult(err error) string {
	switch {
	case apperrors.IsUnauthorized(err), apperrors.IsValidation(err):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
