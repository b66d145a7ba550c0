package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tirans/midivault/pkg/config"
)

// ValidationMetrics tracks the validation pipeline.
//
// Metrics:
//   - midivault_validation_issues_total: Issues by validator and severity
//   - midivault_validation_files_total: Per-file verdicts by status
type ValidationMetrics struct {
	issuesTotal *prometheus.CounterVec
	filesTotal  *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics with
// the provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_issues_total",
				Help:      "Total number of validation issues found",
			},
			[]string{"validator", "severity"},
		),

		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_files_total",
				Help:      "Total number of files validated",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		vm.issuesTotal,
		vm.filesTotal,
	)

	return vm
}

// RecordIssue records one validation issue.
func (vm *ValidationMetrics) RecordIssue(validator, severity string) {
	vm.issuesTotal.WithLabelValues(validator, severity).Inc()
}

// RecordFile records the verdict for one validated file.
func (vm *ValidationMetrics) RecordFile(status string) {
	vm.filesTotal.WithLabelValues(status).Inc()
}
