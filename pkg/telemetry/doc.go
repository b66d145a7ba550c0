// Package telemetry provides observability for the preset repository
// tooling.
//
// The metrics subpackage collects Prometheus metrics for checksum and
// validation runs on a private registry. Structured logging is done
// with log/slog throughout the module, configured from
// config.LoggingConfig by the logging subpackage.
package telemetry
