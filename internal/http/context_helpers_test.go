package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	mocksession "github.com/optitrack/optitrack-ui/internal/mocks/session"
	"github.com/optitrack/optitrack-ui/internal/service"
)

func TestTokenStoreContext(t *testing.T) {
	ctx := context.Background()
	_, ok := GetTokenStoreFromContext(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, SetTokenStoreInContext(ctx, nil))

	store := mocksession.NewMemoryTokenStore()
	got, ok := GetTokenStoreFromContext(SetTokenStoreInContext(ctx, store))
	require.True(t, ok)
	assert.Same(t, store, got)
}

func TestViewerContext(t *testing.T) {
	ctx := context.Background()
	_, ok := GetViewerFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, identityFromContext(ctx))

	v := service.Viewer{Token: "tok", Identity: domainauth.Identity{UserID: 1, Email: "a@example.com", Role: domainauth.RoleAdmin}}
	ctx = SetViewerInContext(ctx, v)

	got, ok := GetViewerFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, v, got)
	assert.Equal(t, "a@example.com", identityFromContext(ctx).Email)
}
