package config

import "time"

// Default values for configuration fields.
const (
	// Repository defaults
	DefaultRepositoryRoot = "devices"

	// Checksum defaults
	DefaultChunkSizeBytes = 4096

	// Validation defaults
	DefaultMaxDepth      = 4
	DefaultMaxFileSizeMB = 3.0

	// History defaults
	DefaultHistoryEnabled       = true
	DefaultHistorySQLitePath    = "data/history.db"
	DefaultHistoryMaxOpenConns  = 10
	DefaultHistoryMaxIdleConns  = 5
	DefaultHistoryWALMode       = true
	DefaultHistoryBusyTimeout   = 5 * time.Second
	DefaultHistoryRetentionDays = 90

	// Watch defaults
	DefaultWatchDebounce = 2 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "midivault"
)

// ApplyDefaults fills in default values for any fields not set in the
// configuration.
func ApplyDefaults(cfg *Config) {
	if cfg.Repository.Root == "" {
		cfg.Repository.Root = DefaultRepositoryRoot
	}

	if cfg.Checksum.ChunkSizeBytes == 0 {
		cfg.Checksum.ChunkSizeBytes = DefaultChunkSizeBytes
	}

	if cfg.Validation.MaxDepth == 0 {
		cfg.Validation.MaxDepth = DefaultMaxDepth
	}
	if cfg.Validation.MaxFileSizeMB == 0 {
		cfg.Validation.MaxFileSizeMB = DefaultMaxFileSizeMB
	}

	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = DefaultHistorySQLitePath
	}
	if cfg.History.MaxOpenConns == 0 {
		cfg.History.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.History.MaxIdleConns == 0 {
		cfg.History.MaxIdleConns = DefaultHistoryMaxIdleConns
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = DefaultHistoryRetentionDays
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RunDurationBuckets) == 0 {
		// Whole-repository runs range from milliseconds on small trees
		// to minutes on large ones.
		cfg.Telemetry.Metrics.RunDurationBuckets = []float64{0.01, 0.05, 0.25, 1.0, 5.0, 30.0, 120.0}
	}
}

// Default returns a configuration with all defaults applied and
// history plus metrics enabled.
func Default() *Config {
	cfg := &Config{}
	cfg.History.Enabled = DefaultHistoryEnabled
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}
