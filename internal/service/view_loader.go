package service

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

// ViewState is the lifecycle state of a protected page load.
type ViewState string

const (
	ViewLoading  ViewState = "loading"
	ViewRedirect ViewState = "redirect"
	ViewError    ViewState = "error"
	ViewReady    ViewState = "ready"
)

// ViewRequest describes the page being loaded.
type ViewRequest struct {
	// Name labels the view in logs and metrics.
	Name string
	// Required is the role the page demands; empty admits any signed-in user.
	Required domainauth.Role
	// Path is the page's own path. A role-mismatch redirect never points back at it.
	Path string
}

// Viewer is what a page's fetch function receives about the caller.
type Viewer struct {
	Identity domainauth.Identity
	Token    string
}

// FetchFunc loads a page's data once access has been granted.
type FetchFunc[T any] func(ctx context.Context, viewer Viewer) (T, error)

// ViewResult is the settled outcome of LoadView.
type ViewResult[T any] struct {
	State    ViewState
	Identity *domainauth.Identity
	// Decision is set when State is ViewRedirect.
	Decision domainauth.AccessDecision
	Data     T
	// Err and ErrorMessage are set when State is ViewError.
	Err          error
	ErrorMessage string
	// Discarded is true when the caller went away before the load finished.
	// Nothing should be rendered for a discarded result.
	Discarded bool
}

// ViewLoaderOptions groups dependencies for ViewLoader.
type ViewLoaderOptions struct {
	Resolver *SessionResolver
	Metrics  metrics.Recorder
	Logger   *slog.Logger
}

// ViewLoader runs the resolve, guard and fetch sequence shared by every protected page.
type ViewLoader struct {
	resolver *SessionResolver
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewViewLoader constructs a ViewLoader.
func NewViewLoader(opts ViewLoaderOptions) *ViewLoader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewLoader{
		resolver: opts.Resolver,
		metrics:  metrics.OrNop(opts.Metrics),
		logger:   logger.With("component", "view_loader"),
	}
}

// Resolver exposes the session resolver for pages that only need the identity.
func (l *ViewLoader) Resolver() *SessionResolver { return l.resolver }

// Authorize resolves the session and applies the access guard without fetching anything.
func (l *ViewLoader) Authorize(
	ctx context.Context,
	store ports.TokenStore,
	req ViewRequest,
) (Resolution, domainauth.AccessDecision) {
	res := l.resolver.Resolve(ctx, store)
	decision := domainauth.CheckAccess(res.Identity, req.Required)
	if decision.Allowed {
		return res, decision
	}

	// A page must not redirect to itself, and a mismatch sent to /login must not find a
	// session there that /login would send back: both end in a clean sign-in.
	if decision.Reason == domainauth.ReasonRoleMismatch {
		selfRedirect := req.Path != "" && decision.RedirectTo == req.Path
		if selfRedirect || decision.RedirectTo == domainauth.LoginPath {
			if err := store.ClearSession(ctx); err != nil {
				l.logger.WarnContext(ctx, "failed to clear session on redirect loop", "error", err)
			}
			decision = domainauth.Deny(domainauth.LoginPath, domainauth.ReasonRoleMismatch)
		}
	}
	l.metrics.AccessDenied(string(decision.Reason))
	return res, decision
}

// LoadView runs the page-load sequence exactly once: resolve, guard, then fetch on allow.
// A 401 or 403 from fetch clears the session and becomes an INVALID_SESSION redirect.
// There are no retries.
func LoadView[T any](
	ctx context.Context,
	l *ViewLoader,
	store ports.TokenStore,
	req ViewRequest,
	fetch FetchFunc[T],
) ViewResult[T] {
	start := time.Now()
	result := ViewResult[T]{State: ViewLoading}
	defer func() {
		state := string(result.State)
		if result.Discarded {
			state = "discarded"
		}
		l.metrics.ViewLoaded(metrics.ViewMetric{View: req.Name, State: state, Duration: time.Since(start)})
	}()

	res, decision := l.Authorize(ctx, store, req)
	if ctx.Err() != nil {
		result.Discarded = true
		return result
	}
	if !decision.Allowed {
		result.State = ViewRedirect
		result.Decision = decision
		return result
	}
	result.Identity = res.Identity

	data, err := fetch(ctx, Viewer{Identity: *res.Identity, Token: res.Token})
	if ctx.Err() != nil {
		result.Discarded = true
		return result
	}
	if err != nil {
		if apperrors.IsSessionInvalid(err) {
			if clearErr := store.ClearSession(ctx); clearErr != nil {
				l.logger.WarnContext(ctx, "failed to clear invalid session", "error", clearErr)
			}
			l.logger.InfoContext(ctx, "api rejected session during page load", "view", req.Name)
			result.State = ViewRedirect
			result.Decision = domainauth.InvalidSession()
			l.metrics.AccessDenied(string(result.Decision.Reason))
			return result
		}
		l.logger.WarnContext(ctx, "page data fetch failed", "view", req.Name, "error", err)
		result.State = ViewError
		result.Err = err
		result.ErrorMessage = apperrors.UserMessage(err)
		return result
	}

	result.State = ViewReady
	result.Data = data
	return result
}
