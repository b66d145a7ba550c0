package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path, applies defaults, and validates the result. Environment
// variables are not consulted; use LoadConfigWithEnvOverrides for
// that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention MIDIVAULT_SECTION_FIELD and always take precedence over
// file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("MIDIVAULT_REPOSITORY_ROOT"); val != "" {
		cfg.Repository.Root = val
	}

	if val := os.Getenv("MIDIVAULT_CHECKSUM_CHUNK_SIZE_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Checksum.ChunkSizeBytes = i
		}
	}

	if val := os.Getenv("MIDIVAULT_VALIDATION_MAX_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Validation.MaxDepth = i
		}
	}
	if val := os.Getenv("MIDIVAULT_VALIDATION_MAX_FILE_SIZE_MB"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Validation.MaxFileSizeMB = f
		}
	}
	if val := os.Getenv("MIDIVAULT_VALIDATION_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.Strict = b
		}
	}

	if val := os.Getenv("MIDIVAULT_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("MIDIVAULT_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLitePath = val
	}
	if val := os.Getenv("MIDIVAULT_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.RetentionDays = i
		}
	}

	if val := os.Getenv("MIDIVAULT_WATCH_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch.Enabled = b
		}
	}
	if val := os.Getenv("MIDIVAULT_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
	if val := os.Getenv("MIDIVAULT_WATCH_SCHEDULE"); val != "" {
		cfg.Watch.Schedule = val
	}

	if val := os.Getenv("MIDIVAULT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MIDIVAULT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MIDIVAULT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
