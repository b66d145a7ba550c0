package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tirans/midivault/pkg/cli"
	"github.com/tirans/midivault/pkg/history"
	"github.com/tirans/midivault/pkg/manifest"
	"github.com/tirans/midivault/pkg/telemetry/metrics"
	"github.com/tirans/midivault/pkg/watcher"
)

var watchFlags struct {
	debounce time.Duration
	schedule string
}

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Watch a preset tree and re-verify on changes",
	Long: `Continuously verify a preset tree against its manifest.

The tree is re-verified after each debounced burst of JSON file
changes. An optional cron schedule additionally triggers periodic full
verification. The command runs until interrupted.

Examples:
  # Watch ./devices with the configured debounce
  midivault watch ./devices

  # Watch with a custom debounce and a nightly full verification
  midivault watch ./devices --debounce 5s --schedule "0 3 * * *"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period before re-verifying (default from config)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic full verification")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := cfg.Repository.Root
	if len(args) > 0 {
		root = args[0]
	}
	manifestPath := filepath.Join(root, manifest.FileName)

	debounce := cfg.Watch.Debounce
	if watchFlags.debounce > 0 {
		debounce = watchFlags.debounce
	}
	schedule := cfg.Watch.Schedule
	if watchFlags.schedule != "" {
		schedule = watchFlags.schedule
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	generator := manifest.NewGenerator(root)

	verify := func() error {
		start := time.Now()
		report := generator.Verify(manifestPath)

		status := "ok"
		if !report.OK() {
			status = "drift"
		}
		collector.RecordRun(history.KindVerify, status, time.Since(start), report.FilesVerified+report.FilesFailed)
		collector.RecordDrift(report.FilesFailed, report.MissingFiles, report.ExtraFiles)

		recordRun(store, &history.Run{
			Kind:         history.KindVerify,
			StartedAt:    start,
			FinishedAt:   time.Now(),
			Root:         root,
			OK:           report.OK(),
			FilesTotal:   report.FilesVerified + report.FilesFailed,
			FilesPassed:  report.FilesVerified,
			FilesFailed:  report.FilesFailed,
			FilesMissing: report.MissingFiles,
			FilesExtra:   report.ExtraFiles,
			ChangedPaths: report.Changed,
			MissingPaths: report.Missing,
			ExtraPaths:   report.Extra,
		})

		printVerificationReport(cmd, report)
		return nil
	}

	tw, err := watcher.New(&watcher.Config{
		Root:             root,
		DebounceInterval: debounce,
		Extensions:       []string{".json"},
		SkipHidden:       true,
	}, nil)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	ctx := cli.SetupSignalHandler()

	scheduler := watcher.NewScheduler(schedule)
	if err := scheduler.Start(ctx, func() { verify() }); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer scheduler.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (debounce %s)\n", root, debounce)

	if err := tw.Watch(ctx, verify); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}
