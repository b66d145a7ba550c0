package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tirans/midivault/pkg/cli"
	"github.com/tirans/midivault/pkg/config"
	"github.com/tirans/midivault/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "midivault",
	Short: "Midivault - MIDI device preset repository integrity tool",
	Long: `Midivault keeps a repository of MIDI device preset files honest.

It provides:
  - Chunked SHA-256 checksums for files, folders, and the whole tree
  - A manifest snapshot with per-file records and statistics
  - Drift detection: changed, missing, and extra files
  - A multi-stage validation pipeline (structure, content, security,
    business rules)
  - Continuous verification via filesystem watching and cron schedules

For more information, visit: https://github.com/tirans/midivault`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file if it exists and falls back
// to defaults otherwise. It also installs the configured logger,
// raised to debug level when --verbose is set.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(cfgFile); err == nil {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, cli.NewConfigError("", err.Error())
		}
	} else {
		cfg = config.Default()
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if _, err := logging.Setup(cfg.Telemetry.Logging, nil); err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	return cfg, nil
}
