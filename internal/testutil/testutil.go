// Package testutil holds helpers shared by package tests: redis fixtures, fixed
// clocks, identities and an in-memory OptiTrack API.
package testutil

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

// Redis test utilities

// SetupMiniRedis starts an in-process redis and returns it with a connected client.
// Both are closed when the test ends.
func SetupMiniRedis(t TestingTB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
		mr.Close()
	})
	return mr, client
}

// SetupTestRedis connects to the redis named by REDIS_ADDR for tests that need a
// real server. It skips the test when none is reachable, or fails when
// TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:56379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if requireRedis() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	client.FlushDB(ctx)
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})
	return client
}

// Identities used across handler and service tests.

// AdminIdentity returns a complete administrator identity.
func AdminIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    1,
		Email:     "admin@optitrack.test",
		Role:      domainauth.RoleAdmin,
		FirstName: "Ada",
		LastName:  "Admin",
	}
}

// EmployeeIdentity returns a complete employee identity linked to employeeID.
func EmployeeIdentity(employeeID int64) domainauth.Identity {
	return domainauth.Identity{
		UserID:     employeeID + 100,
		Email:      "jane@optitrack.test",
		Role:       domainauth.RoleEmployee,
		EmployeeID: Int64Ptr(employeeID),
		FirstName:  "Jane",
		LastName:   "Doe",
		Department: "Operations",
	}
}

// Common pointer helper functions for tests.

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to the given int64 value.
func Int64Ptr(i int64) *int64 {
	return &i
}

// TimePtr returns a pointer to the given time value.
func TimePtr(t time.Time) *time.Time {
	return &t
}
