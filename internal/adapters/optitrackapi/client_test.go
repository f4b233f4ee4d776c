package optitrackapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
)

type callRecorder struct {
	metrics.Nop
	mu    sync.Mutex
	calls []metrics.APICall
}

func (r *callRecorder) APIRequest(call metrics.APICall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func newTestClient(t *testing.T, h http.Handler, opts ...func(*Config)) (*Client, *callRecorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rec := &callRecorder{}
	cfg := Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Metrics: rec}
	for _, opt := range opts {
		opt(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c, rec
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	_, err = New(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := New(Config{BaseURL: "http://localhost:8081/"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, "http://localhost:8081", c.base.String())
}

func TestWhoAmISendsBearerToken(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id": 7, "email": "ada@example.com", "role": "admin", "employeeId": 42,
		})
	}))

	who, err := c.WhoAmI(context.Background(), "tok-123")
	require.NoError(t, err)
	require.NotNil(t, who.ID)
	assert.Equal(t, int64(7), *who.ID)
	assert.Equal(t, "admin", *who.Role)
	assert.Equal(t, int64(42), *who.EmployeeID)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "auth.me", rec.calls[0].Endpoint)
	assert.Equal(t, http.StatusOK, rec.calls[0].Status)
	assert.NoError(t, rec.calls[0].Err)
}

func TestLoginHasNoAuthorizationHeader(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body.Email)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"message": "Login successful", "token": "jwt", "role": "EMPLOYEE",
			"employeeId": 3, "employeeFullName": "Ada Lovelace", "department": "R&D",
		})
	}))

	res, err := c.Login(context.Background(), model.LoginRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, "Ada Lovelace", res.EmployeeFullName)
}

func TestLoginRejectedUsesCredentialMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Login(context.Background(), model.LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password.", apperrors.UserMessage(err))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    apperrors.ErrorCode
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, "", apperrors.ErrCodeUnauthorized, ""},
		{"forbidden", http.StatusForbidden, "", apperrors.ErrCodeForbidden, ""},
		{"not found", http.StatusNotFound, "", apperrors.ErrCodeNotFound, ""},
		{"json message", http.StatusBadRequest, `{"message":"Email is taken"}`, apperrors.ErrCodeValidation, "Email is taken"},
		{"json error", http.StatusConflict, `{"error":"Already clocked in"}`, apperrors.ErrCodeConflict, "Already clocked in"},
		{"plain text", http.StatusInternalServerError, "Error creating employee: boom", apperrors.ErrCodeUpstream, "Error creating employee: boom"},
		{"html ignored", http.StatusBadGateway, "<html>bad gateway</html>", apperrors.ErrCodeUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))

			_, err := c.ListEmployees(context.Background(), "tok")
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
			if tt.message != "" {
				assert.Equal(t, tt.message, apperrors.UserMessage(err))
			}

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.status, appErr.Status)

			require.Len(t, rec.calls, 1)
			assert.Equal(t, tt.status, rec.calls[0].Status)
			assert.Error(t, rec.calls[0].Err)
		})
	}
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.AdminStats(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), func(cfg *Config) { cfg.Timeout = 50 * time.Millisecond })

	_, err := c.ListAllPunches(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err), "got %v", err)
}

func TestCanceledContext(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("request should not reach the server")
	}), func(cfg *Config) {
		cfg.RateLimit = 0.001
		cfg.RateBurst = 1
	})
	// Drain the single token so the next call has to wait.
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListPendingOvertime(ctx, "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err), "got %v", err)
}

func TestDecodeErrorIsUpstream(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "{not json")
	}))

	_, err := c.GetEmployee(context.Background(), "tok", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpstream, apperrors.GetCode(err))
}

func TestEndpointsRouting(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 5, "firstName": "Grace", "lastName": "Hopper"})
	})
	mux.HandleFunc("PUT /api/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "5", r.PathValue("id"))
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 5, "firstName": "Grace", "department": "Navy"})
	})
	mux.HandleFunc("DELETE /api/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/punches/in", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(5), body["employeeId"])
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id": 9, "employeeId": 5, "punchType": "IN", "timestamp": "2025-03-01T08:30:00",
		})
	})
	mux.HandleFunc("GET /api/admin/dashboard/recent-activity", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(t, w, http.StatusOK, []map[string]any{{"id": 1, "employeeName": "Grace Hopper", "punchType": "OUT"}})
	})
	mux.HandleFunc("GET /api/reports/weekly-hours", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "5", r.URL.Query().Get("employeeId"))
		_, _ = io.WriteString(w, "37.5")
	})
	mux.HandleFunc("PUT /api/overtime/admin/reject/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 11, "status": "REJECTED"})
	})
	mux.HandleFunc("GET /api/overtime/employee/approved", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusOK, []map[string]any{{"id": 2, "status": "APPROVED", "requestedHours": 2}})
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	emp, err := c.GetEmployee(ctx, "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", emp.FullName())

	updated, err := c.UpdateEmployee(ctx, "tok", 5, model.EmployeeRequest{FirstName: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Navy", updated.Department)

	require.NoError(t, c.DeleteEmployee(ctx, "tok", 5))

	punch, err := c.ClockIn(ctx, "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, model.PunchIn, punch.PunchType)
	assert.Equal(t, 8, punch.Timestamp.Hour())

	activity, err := c.RecentActivity(ctx, "tok", 5)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, model.PunchOut, activity[0].PunchType)

	hours, err := c.WeeklyHours(ctx, "tok", 5)
	require.NoError(t, err)
	assert.InDelta(t, 37.5, float64(hours), 0.001)

	decided, err := c.DecideOvertime(ctx, "tok", 11, model.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, model.OvertimeRejected, decided.Status)

	mine, err := c.ListMyOvertime(ctx, "tok", model.OvertimeApproved)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.InDelta(t, 2.0, float64(mine[0].RequestedHours), 0.001)

	assert.Equal(t, int32(8), hits.Load())
}

func TestInvalidArgumentsMakeNoCall(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected request")
	}))

	_, err := c.ListMyOvertime(context.Background(), "tok", model.OvertimeRejected)
	assert.True(t, apperrors.IsValidation(err))

	_, err = c.DecideOvertime(context.Background(), "tok", 1, model.OvertimeDecision("escalate"))
	assert.True(t, apperrors.IsValidation(err))

	assert.Empty(t, rec.calls)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", errorMessage(nil))
	assert.Equal(t, "m", errorMessage([]byte(`{"message":" m ","error":"e"}`)))
	assert.Equal(t, "e", errorMessage([]byte(`{"error":"e"}`)))
	assert.Equal(t, "", errorMessage([]byte(`{"status":500}`)))
	assert.Equal(t, "", errorMessage([]byte(`{broken`)))
	assert.Equal(t, "User details not found", errorMessage([]byte("User details not found\n")))
}
