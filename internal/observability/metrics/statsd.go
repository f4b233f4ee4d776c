package metrics

import (
	"strconv"

	obserrors "github.com/optitrack/optitrack-ui/internal/observability/errors"
	"github.com/optitrack/optitrack-ui/internal/observability/statsd"
)

// StatsdRecorder emits events as StatsD counters and timings.
type StatsdRecorder struct {
	sink statsd.Sink
}

var _ Recorder = (*StatsdRecorder)(nil)

// NewStatsdRecorder wraps sink. A nil sink drops everything.
func NewStatsdRecorder(sink statsd.Sink) *StatsdRecorder {
	return &StatsdRecorder{sink: sink}
}

func (r *StatsdRecorder) SessionResolved(outcome string) {
	if r.sink == nil {
		return
	}
	r.sink.Count("session.resolve", 1, map[string]string{"outcome": outcome})
}

func (r *StatsdRecorder) AccessDenied(reason string) {
	if r.sink == nil {
		return
	}
	r.sink.Count("access.denied", 1, map[string]string{"reason": reason})
}

// APIRequest emits api.request and api.duration tagged with endpoint, method,
// status and, for failures, the error class.
func (r *StatsdRecorder) APIRequest(call APICall) {
	if r.sink == nil {
		return
	}

	result := ResultSuccess
	if call.Err != nil {
		result = ResultError
	}
	tags := map[string]string{
		"endpoint": call.Endpoint,
		"method":   call.Method,
		"result":   result,
	}
	if call.Status > 0 {
		tags["status"] = strconv.Itoa(call.Status)
	}
	if call.Err != nil {
		if class := obserrors.Classify(call.Err); class != "" {
			tags["error_class"] = class
		}
	}

	r.sink.Count("api.request", 1, tags)
	if call.Duration > 0 {
		r.sink.Timing("api.duration", call.Duration, CloneTags(tags))
	}
}

func (r *StatsdRecorder) ViewLoaded(view ViewMetric) {
	if r.sink == nil {
		return
	}
	tags := map[string]string{"view": view.View, "state": view.State}
	r.sink.Count("view.load", 1, tags)
	if view.Duration > 0 {
		r.sink.Timing("view.duration", view.Duration, CloneTags(tags))
	}
}

func (r *StatsdRecorder) LoginAttempt(result string) {
	if r.sink == nil {
		return
	}
	r.sink.Count("login.attempt", 1, map[string]string{"result": result})
}
