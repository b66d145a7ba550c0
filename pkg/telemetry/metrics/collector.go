package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tirans/midivault/pkg/config"
)

// Collector owns all Prometheus metrics for the tool. It manages
// metric registration and provides one recording interface for the
// checksum and validation subsystems.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	runMetrics        *RunMetrics
	validationMetrics *ValidationMetrics
	checksumMetrics   *ChecksumMetrics
}

// NewCollector creates a metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// private registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "midivault"
	}
	if len(cfg.RunDurationBuckets) == 0 {
		cfg.RunDurationBuckets = []float64{0.01, 0.05, 0.25, 1.0, 5.0, 30.0, 120.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.runMetrics = NewRunMetrics(cfg, registry)
	c.validationMetrics = NewValidationMetrics(cfg, registry)
	c.checksumMetrics = NewChecksumMetrics(cfg, registry)

	return c
}

// RecordRun records one completed generate, verify, or validate run.
func (c *Collector) RecordRun(kind, status string, duration time.Duration, files int) {
	if !c.config.Enabled {
		return
	}
	c.runMetrics.RecordRun(kind, status, duration, files)
}

// RecordIssue records one validation issue.
func (c *Collector) RecordIssue(validator, severity string) {
	if !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordIssue(validator, severity)
}

// RecordFileValidated records the per-file validation verdict.
func (c *Collector) RecordFileValidated(status string) {
	if !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordFile(status)
}

// RecordHash records one file digest computation.
func (c *Collector) RecordHash(bytes int64, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.checksumMetrics.RecordHash(bytes, duration)
}

// RecordDrift records the drift counts observed by a verify run.
func (c *Collector) RecordDrift(changed, missing, extra int) {
	if !c.config.Enabled {
		return
	}
	c.checksumMetrics.RecordDrift(changed, missing, extra)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
