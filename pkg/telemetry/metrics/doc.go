// Package metrics collects Prometheus metrics for checksum and
// validation runs. All metrics are registered on a collector-owned
// registry; callers decide whether and where to expose it.
package metrics
