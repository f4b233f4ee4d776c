// Package metrics records session, access and upstream API events to a pluggable backend.
package metrics

import (
	"maps"
	"time"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultLimited = "limited"
	ResultInvalid = "invalid"
)

// Session resolution outcomes.
const (
	SessionAbsent      = "absent"
	SessionCached      = "cached"
	SessionRevalidated = "revalidated"
	SessionInvalid     = "invalid"
	SessionMalformed   = "malformed"
	SessionError       = "error"
)

// APICall describes one outbound request to the OptiTrack API.
type APICall struct {
	Endpoint string
	Method   string
	Status   int
	Duration time.Duration
	Err      error
}

// ViewMetric describes one page load through the view loader.
type ViewMetric struct {
	View     string
	State    string
	Duration time.Duration
}

// Recorder receives application events. Implementations must be safe for concurrent use.
type Recorder interface {
	SessionResolved(outcome string)
	AccessDenied(reason string)
	APIRequest(call APICall)
	ViewLoaded(view ViewMetric)
	LoginAttempt(result string)
}

// Nop discards every event.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) SessionResolved(string) {}
func (Nop) AccessDenied(string)    {}
func (Nop) APIRequest(APICall)     {}
func (Nop) ViewLoaded(ViewMetric)  {}
func (Nop) LoginAttempt(string)    {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	maps.Copy(out, src)
	delete(out, "")
	return out
}
