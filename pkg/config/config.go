package config

import "time"

// Config is the root configuration for the tool.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Checksum   ChecksumConfig   `yaml:"checksum"`
	Validation ValidationConfig `yaml:"validation"`
	History    HistoryConfig    `yaml:"history"`
	Watch      WatchConfig      `yaml:"watch"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// RepositoryConfig locates the preset tree.
type RepositoryConfig struct {
	// Root is the devices folder holding one subfolder per device.
	Root string `yaml:"root"`

	// ExcludePatterns are substrings matched against file base names
	// during enumeration. The manifest file is always excluded.
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// ChecksumConfig tunes digest computation.
type ChecksumConfig struct {
	// ChunkSizeBytes is the read size used while hashing files.
	ChunkSizeBytes int `yaml:"chunk_size_bytes"`
}

// ValidationConfig tunes the validation pipeline.
type ValidationConfig struct {
	// MaxDepth is the maximum folder nesting depth below the root.
	MaxDepth int `yaml:"max_depth"`

	// MaxFileSizeMB is the per-file size ceiling.
	MaxFileSizeMB float64 `yaml:"max_file_size_mb"`

	// Strict treats warnings as failures.
	Strict bool `yaml:"strict"`
}

// HistoryConfig controls the run audit trail.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the database file path.
	SQLitePath string `yaml:"sqlite_path"`

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how long runs are kept before pruning.
	// 0 disables pruning.
	RetentionDays int `yaml:"retention_days"`
}

// WatchConfig controls continuous verification.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`

	// Debounce is how long to wait after the last filesystem event
	// before re-verifying.
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is an optional cron expression for periodic full
	// verification independent of filesystem events.
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is one of text, json.
	Format string `yaml:"format"`
}

// MetricsConfig controls Prometheus metrics collection.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// RunDurationBuckets are histogram buckets in seconds for whole
	// generate and verify runs.
	RunDurationBuckets []float64 `yaml:"run_duration_buckets"`
}
