package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values. It returns an
// error describing the first problem found.
func Validate(cfg *Config) error {
	if cfg.Repository.Root == "" {
		return fmt.Errorf("repository.root must not be empty")
	}

	if cfg.Checksum.ChunkSizeBytes <= 0 {
		return fmt.Errorf("checksum.chunk_size_bytes must be positive, got %d", cfg.Checksum.ChunkSizeBytes)
	}

	if cfg.Validation.MaxDepth <= 0 {
		return fmt.Errorf("validation.max_depth must be positive, got %d", cfg.Validation.MaxDepth)
	}
	if cfg.Validation.MaxFileSizeMB <= 0 {
		return fmt.Errorf("validation.max_file_size_mb must be positive, got %g", cfg.Validation.MaxFileSizeMB)
	}

	if cfg.History.Enabled {
		if cfg.History.SQLitePath == "" {
			return fmt.Errorf("history.sqlite_path must not be empty when history is enabled")
		}
		if cfg.History.MaxOpenConns <= 0 {
			return fmt.Errorf("history.max_open_conns must be positive, got %d", cfg.History.MaxOpenConns)
		}
		if cfg.History.MaxIdleConns < 0 {
			return fmt.Errorf("history.max_idle_conns must not be negative, got %d", cfg.History.MaxIdleConns)
		}
		if cfg.History.RetentionDays < 0 {
			return fmt.Errorf("history.retention_days must not be negative, got %d", cfg.History.RetentionDays)
		}
	}

	if cfg.Watch.Enabled && cfg.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Watch.Schedule); err != nil {
			return fmt.Errorf("watch.schedule is not a valid cron expression: %w", err)
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error, got %q", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("telemetry.logging.format must be text or json, got %q", cfg.Telemetry.Logging.Format)
	}

	return nil
}
