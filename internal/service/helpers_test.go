package service

import (
	"io"
	"log/slog"
	"sync"

	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
)

// recordingMetrics captures recorder events for assertions.
type recordingMetrics struct {
	mu       sync.Mutex
	sessions []string
	denials  []string
	views    []metrics.ViewMetric
	logins   []string
	calls    []metrics.APICall
}

var _ metrics.Recorder = (*recordingMetrics)(nil)

func (r *recordingMetrics) SessionResolved(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, outcome)
}

func (r *recordingMetrics) AccessDenied(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denials = append(r.denials, reason)
}

func (r *recordingMetrics) APIRequest(call metrics.APICall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingMetrics) ViewLoaded(view metrics.ViewMetric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
}

func (r *recordingMetrics) LoginAttempt(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, result)
}

func (r *recordingMetrics) Sessions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sessions...)
}

func (r *recordingMetrics) Denials() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.denials...)
}

func (r *recordingMetrics) Views() []metrics.ViewMetric {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]metrics.ViewMetric(nil), r.views...)
}

func (r *recordingMetrics) Logins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.logins...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
