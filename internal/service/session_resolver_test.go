package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/mocks"
	mocksession "github.com/optitrack/optitrack-ui/internal/mocks/session"
	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
)

func newResolver(t *testing.T) (*SessionResolver, *mocks.MockWhoAmIClient, *recordingMetrics) {
	t.Helper()
	ctrl := gomock.NewController(t)
	whoami := mocks.NewMockWhoAmIClient(ctrl)
	rec := &recordingMetrics{}
	r := NewSessionResolver(SessionResolverOptions{WhoAmI: whoami, Metrics: rec, Logger: discardLogger()})
	return r, whoami, rec
}

func adminIdentity() domainauth.Identity {
	return domainauth.Identity{UserID: 1, Email: "admin@example.com", Role: domainauth.RoleAdmin}
}

func employeeIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:     7,
		Email:      "jane@example.com",
		Role:       domainauth.RoleEmployee,
		EmployeeID: int64Ptr(42),
		FirstName:  "Jane",
		LastName:   "Doe",
		Department: "Ops",
	}
}

func TestSessionResolver_NoTokenMakesNoCall(t *testing.T) {
	r, whoami, rec := newResolver(t)
	whoami.EXPECT().WhoAmI(gomock.Any(), gomock.Any()).Times(0)

	store := mocksession.NewMemoryTokenStore()
	id, ok := r.ResolveIdentity(context.Background(), store)

	assert.False(t, ok)
	assert.Nil(t, id)
	assert.Equal(t, []string{metrics.SessionAbsent}, rec.Sessions())
}

func TestSessionResolver_IdentityWithoutTokenIsUntrusted(t *testing.T) {
	r, whoami, _ := newResolver(t)
	whoami.EXPECT().WhoAmI(gomock.Any(), gomock.Any()).Times(0)

	store := mocksession.NewMemoryTokenStore()
	store.Put(domainauth.FieldUserRole, "ADMIN")
	store.Put(domainauth.FieldCurrentUser, `{"id":1,"email":"admin@example.com","role":"ADMIN"}`)

	_, ok := r.ResolveIdentity(context.Background(), store)
	assert.False(t, ok)
}

func TestSessionResolver_TrustsCompleteCachedIdentity(t *testing.T) {
	r, whoami, rec := newResolver(t)
	whoami.EXPECT().WhoAmI(gomock.Any(), gomock.Any()).Times(0)

	cached := employeeIdentity()
	cached.Role = "employee"
	store := mocksession.NewMemoryTokenStoreWith("tok", &cached)

	id, ok := r.ResolveIdentity(context.Background(), store)
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleEmployee, id.Role)
	assert.Equal(t, int64(42), id.EmployeeIDValue())
	assert.Equal(t, []string{metrics.SessionCached}, rec.Sessions())
}

func TestSessionResolver_RevalidatesPartialIdentity(t *testing.T) {
	r, whoami, rec := newResolver(t)

	// Login stores role and employee id but no user id.
	partial := domainauth.Identity{Role: domainauth.RoleEmployee, EmployeeID: int64Ptr(42)}
	store := mocksession.NewMemoryTokenStoreWith("tok", &partial)

	whoami.EXPECT().WhoAmI(gomock.Any(), "tok").Return(&model.WhoAmI{
		ID:         int64Ptr(7),
		Email:      strPtr(" jane@example.com "),
		Role:       strPtr("employee"),
		EmployeeID: int64Ptr(42),
		FirstName:  "Jane",
		LastName:   "Doe",
		Department: "Ops",
	}, nil).Times(1)

	id, ok := r.ResolveIdentity(context.Background(), store)
	require.True(t, ok)
	assert.Equal(t, employeeIdentity(), *id)
	assert.Equal(t, 1, store.SetCalls)

	fields := store.Fields()
	assert.Equal(t, "tok", fields[domainauth.FieldAuthToken])
	assert.Equal(t, "EMPLOYEE", fields[domainauth.FieldUserRole])
	assert.Equal(t, "42", fields[domainauth.FieldEmployeeID])
	assert.Equal(t, "Jane", fields[domainauth.FieldFirstName])
	assert.Equal(t, "Doe", fields[domainauth.FieldLastName])
	assert.Equal(t, "Ops", fields[domainauth.FieldDepartment])
	assert.Equal(t, []string{metrics.SessionRevalidated}, rec.Sessions())
}

func TestSessionResolver_TokenOnlyRevalidates(t *testing.T) {
	r, whoami, _ := newResolver(t)
	store := mocksession.NewMemoryTokenStoreWith("tok", nil)

	whoami.EXPECT().WhoAmI(gomock.Any(), "tok").Return(&model.WhoAmI{
		ID:    int64Ptr(1),
		Email: strPtr("admin@example.com"),
		Role:  strPtr("ADMIN"),
	}, nil)

	id, ok := r.ResolveIdentity(context.Background(), store)
	require.True(t, ok)
	assert.Equal(t, adminIdentity(), *id)

	// The cached identity is used on the next request.
	whoami.EXPECT().WhoAmI(gomock.Any(), gomock.Any()).Times(0)
	_, ok = r.ResolveIdentity(context.Background(), store)
	assert.True(t, ok)
}

func TestSessionResolver_RejectedTokenClearsSession(t *testing.T) {
	for _, status := range []int{401, 403, 500} {
		t.Run(apperrors.FromStatus(status, "").Message, func(t *testing.T) {
			r, whoami, rec := newResolver(t)
			store := mocksession.NewMemoryTokenStoreWith("tok", nil)
			whoami.EXPECT().WhoAmI(gomock.Any(), "tok").Return(nil, apperrors.FromStatus(status, ""))

			_, ok := r.ResolveIdentity(context.Background(), store)
			assert.False(t, ok)
			assert.Equal(t, 1, store.ClearCalls)
			assert.Empty(t, store.Fields())
			assert.Equal(t, []string{metrics.SessionInvalid}, rec.Sessions())
		})
	}
}

func TestSessionResolver_TransportErrorKeepsSession(t *testing.T) {
	r, whoami, rec := newResolver(t)
	store := mocksession.NewMemoryTokenStoreWith("tok", nil)
	whoami.EXPECT().WhoAmI(gomock.Any(), "tok").
		Return(nil, apperrors.FromTransport(errors.New("connection refused")))

	_, ok := r.ResolveIdentity(context.Background(), store)
	assert.False(t, ok)
	assert.Equal(t, 0, store.ClearCalls)
	assert.Equal(t, "tok", store.Fields()[domainauth.FieldAuthToken])
	assert.Equal(t, []string{metrics.SessionError}, rec.Sessions())
}

func TestSessionResolver_MalformedProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *model.WhoAmI
	}{
		{"nil profile", nil},
		{"missing id", &model.WhoAmI{Email: strPtr("a@example.com"), Role: strPtr("ADMIN")}},
		{"missing email", &model.WhoAmI{ID: int64Ptr(1), Role: strPtr("ADMIN")}},
		{"missing role", &model.WhoAmI{ID: int64Ptr(1), Email: strPtr("a@example.com")}},
		{"blank email", &model.WhoAmI{ID: int64Ptr(1), Email: strPtr("  "), Role: strPtr("ADMIN")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, whoami, _ := newResolver(t)
			store := mocksession.NewMemoryTokenStoreWith("tok", nil)
			whoami.EXPECT().WhoAmI(gomock.Any(), "tok").Return(tt.profile, nil)

			_, ok := r.ResolveIdentity(context.Background(), store)
			assert.False(t, ok)
			assert.Equal(t, 0, store.SetCalls)
			assert.Equal(t, 0, store.ClearCalls)
		})
	}
}

func TestSessionResolver_PersistFailureStillResolves(t *testing.T) {
	r, whoami, _ := newResolver(t)
	store := mocksession.NewMemoryTokenStoreWith("tok", nil)
	store.SetErr = errors.New("cookie too large")
	whoami.EXPECT().WhoAmI(gomock.Any(), "tok").Return(&model.WhoAmI{
		ID: int64Ptr(1), Email: strPtr("admin@example.com"), Role: strPtr("admin"),
	}, nil)

	id, ok := r.ResolveIdentity(context.Background(), store)
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleAdmin, id.Role)
}

func TestSessionResolver_CoalescesConcurrentLookups(t *testing.T) {
	r, whoami, _ := newResolver(t)

	release := make(chan struct{})
	whoami.EXPECT().WhoAmI(gomock.Any(), "tok").DoAndReturn(
		func(context.Context, string) (*model.WhoAmI, error) {
			<-release
			return &model.WhoAmI{ID: int64Ptr(1), Email: strPtr("admin@example.com"), Role: strPtr("ADMIN")}, nil
		}).Times(1)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store := mocksession.NewMemoryTokenStoreWith("tok", nil)
			_, results[i] = r.ResolveIdentity(context.Background(), store)
		}()
	}

	// Give every caller time to join the in-flight lookup.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "caller %d", i)
	}
}

func TestSessionResolver_CallerCancellation(t *testing.T) {
	r, whoami, rec := newResolver(t)

	release := make(chan struct{})
	defer close(release)
	whoami.EXPECT().WhoAmI(gomock.Any(), "tok").DoAndReturn(
		func(ctx context.Context, _ string) (*model.WhoAmI, error) {
			<-release
			return nil, ctx.Err()
		}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	store := mocksession.NewMemoryTokenStoreWith("tok", nil)

	done := make(chan bool)
	go func() {
		_, ok := r.ResolveIdentity(ctx, store)
		done <- ok
	}()
	cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("resolver did not return after cancellation")
	}
	assert.Equal(t, 0, store.ClearCalls)
	assert.Equal(t, []string{metrics.SessionError}, rec.Sessions())
}
