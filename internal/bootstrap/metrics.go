package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/optitrack/optitrack-ui/config"
	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
	"github.com/optitrack/optitrack-ui/internal/observability/statsd"
)

// MetricsBundle is the recorder handed to services plus what the process must expose or release.
type MetricsBundle struct {
	Recorder metrics.Recorder
	// Handler serves /metrics; nil unless the prometheus backend is selected.
	Handler http.Handler
	close   func() error
}

// Close releases the statsd socket when one was opened.
func (b MetricsBundle) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// BuildMetrics selects the recorder for the configured backend.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (MetricsBundle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.MetricsBackendPrometheus:
		rec := metrics.NewPrometheusRecorder()
		logger.Info("metrics enabled", "backend", cfg.Backend)
		return MetricsBundle{Recorder: rec, Handler: rec.Handler()}, nil
	case config.MetricsBackendStatsd:
		client, err := statsd.NewClient(statsd.Config{
			Address: cfg.StatsdAddress,
			Prefix:  cfg.StatsdPrefix,
			Logger:  logger,
		})
		if err != nil {
			return MetricsBundle{}, fmt.Errorf("statsd client: %w", err)
		}
		logger.Info("metrics enabled", "backend", cfg.Backend, "addr", cfg.StatsdAddress)
		return MetricsBundle{Recorder: metrics.NewStatsdRecorder(client), close: client.Close}, nil
	default:
		return MetricsBundle{Recorder: metrics.Nop{}}, nil
	}
}
