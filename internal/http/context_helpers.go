package httpx

import (
	"context"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/ports"
	"github.com/optitrack/optitrack-ui/internal/service"
)

// tokenStoreKey is an unexported context key type to avoid collisions across packages.
type tokenStoreKey struct{}

// viewerKey carries the identity granted by RequireRole.
type viewerKey struct{}

// SetTokenStoreInContext returns a child context carrying the request's Token Store.
func SetTokenStoreInContext(ctx context.Context, store ports.TokenStore) context.Context {
	if store == nil {
		return ctx
	}
	return context.WithValue(ctx, tokenStoreKey{}, store)
}

// GetTokenStoreFromContext returns the request's Token Store and whether one was set.
func GetTokenStoreFromContext(ctx context.Context) (ports.TokenStore, bool) {
	store, ok := ctx.Value(tokenStoreKey{}).(ports.TokenStore)
	return store, ok && store != nil
}

// SetViewerInContext returns a child context carrying the authorized viewer.
func SetViewerInContext(ctx context.Context, v service.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// GetViewerFromContext returns the viewer authorized for this request, if any.
func GetViewerFromContext(ctx context.Context) (service.Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(service.Viewer)
	return v, ok
}

// identityFromContext returns the viewer's identity for layout rendering, or nil.
func identityFromContext(ctx context.Context) *domainauth.Identity {
	if v, ok := GetViewerFromContext(ctx); ok {
		id := v.Identity
		return &id
	}
	return nil
}
