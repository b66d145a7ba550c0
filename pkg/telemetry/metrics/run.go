package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tirans/midivault/pkg/config"
)

// RunMetrics tracks whole-run outcomes.
//
// Metrics:
//   - midivault_runs_total: Run count by kind and status
//   - midivault_run_duration_seconds: Run duration histogram by kind
//   - midivault_run_files_total: Files processed per run kind
type RunMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	filesTotal  *prometheus.CounterVec
}

// NewRunMetrics creates and registers run metrics with the provided
// registry.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of checksum and validation runs",
			},
			[]string{"kind", "status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of runs in seconds",
				Buckets:   cfg.RunDurationBuckets,
			},
			[]string{"kind"},
		),

		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_files_total",
				Help:      "Total number of files processed by runs",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		rm.runsTotal,
		rm.runDuration,
		rm.filesTotal,
	)

	return rm
}

// RecordRun records one completed run.
func (rm *RunMetrics) RecordRun(kind, status string, duration time.Duration, files int) {
	rm.runsTotal.WithLabelValues(kind, status).Inc()
	rm.runDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if files > 0 {
		rm.filesTotal.WithLabelValues(kind).Add(float64(files))
	}
}
