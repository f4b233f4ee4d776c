// Package mocks provides mock implementations of the ports used by the OptiTrack UI services.
//
// This package uses go.uber.org/mock (gomock). The mocks are generated from the interfaces in
// internal/ports and checked in; hand-written in-memory doubles live in mocks/session.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	whoami := mocks.NewMockWhoAmIClient(ctrl)
//	whoami.EXPECT().WhoAmI(gomock.Any(), "token").Return(profile, nil)
package mocks

// Generate mock for TokenStore interface from internal/ports package.
// This creates MockTokenStore with methods: GetToken, GetSession, SetSession, ClearSession
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_store_mock.go github.com/optitrack/optitrack-ui/internal/ports TokenStore

// Generate mock for WhoAmIClient interface from internal/ports package.
// This creates MockWhoAmIClient with methods: WhoAmI
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=whoami_client_mock.go github.com/optitrack/optitrack-ui/internal/ports WhoAmIClient

// Generate mock for LoginClient interface from internal/ports package.
// This creates MockLoginClient with methods: Login
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=login_client_mock.go github.com/optitrack/optitrack-ui/internal/ports LoginClient
