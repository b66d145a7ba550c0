// Package logging configures the process-wide slog logger from
// config.LoggingConfig. Components obtain their loggers with
// slog.Default().With("component", name).
package logging
