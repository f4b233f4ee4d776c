package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/optitrack/optitrack-ui/internal/observability/errors"
)

const namespace = "optitrack_ui"

// PrometheusRecorder keeps collectors on its own registry so several instances
// (tests, for one) never collide on the global default.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	sessionResolutions *prometheus.CounterVec
	accessDenials      *prometheus.CounterVec
	apiRequests        *prometheus.CounterVec
	apiDuration        *prometheus.HistogramVec
	viewLoads          *prometheus.CounterVec
	viewDuration       *prometheus.HistogramVec
	loginAttempts      *prometheus.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the application collectors plus the Go runtime
// and process collectors on a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		sessionResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_resolutions_total",
				Help:      "Session resolutions by outcome",
			},
			[]string{"outcome"},
		),
		accessDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "access_denials_total",
				Help:      "Access guard denials by reason code",
			},
			[]string{"reason"},
		),
		apiRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Outbound OptiTrack API requests",
			},
			[]string{"endpoint", "method", "status", "error_class"},
		),
		apiDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Outbound OptiTrack API request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		viewLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_loads_total",
				Help:      "Page loads by view and final state",
			},
			[]string{"view", "state"},
		),
		viewDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "view_load_duration_seconds",
				Help:      "Time from session resolution to page data ready",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"view"},
		),
		loginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login form submissions by result",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *PrometheusRecorder) SessionResolved(outcome string) {
	r.sessionResolutions.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) AccessDenied(reason string) {
	r.accessDenials.WithLabelValues(reason).Inc()
}

func (r *PrometheusRecorder) APIRequest(call APICall) {
	status := ""
	if call.Status > 0 {
		status = strconv.Itoa(call.Status)
	}
	r.apiRequests.WithLabelValues(call.Endpoint, call.Method, status, obserrors.Classify(call.Err)).Inc()
	if call.Duration > 0 {
		r.apiDuration.WithLabelValues(call.Endpoint, call.Method).Observe(call.Duration.Seconds())
	}
}

func (r *PrometheusRecorder) ViewLoaded(view ViewMetric) {
	r.viewLoads.WithLabelValues(view.View, view.State).Inc()
	if view.Duration > 0 {
		r.viewDuration.WithLabelValues(view.View).Observe(view.Duration.Seconds())
	}
}

func (r *PrometheusRecorder) LoginAttempt(result string) {
	r.loginAttempts.WithLabelValues(result).Inc()
}
