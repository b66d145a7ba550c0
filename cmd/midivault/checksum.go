package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tirans/midivault/pkg/cli"
	"github.com/tirans/midivault/pkg/config"
	"github.com/tirans/midivault/pkg/history"
	"github.com/tirans/midivault/pkg/manifest"
	"github.com/tirans/midivault/pkg/telemetry/metrics"
)

var checksumFlags struct {
	verify       bool
	manifestPath string
	format       string
}

var checksumCmd = &cobra.Command{
	Use:   "checksum [root]",
	Short: "Generate or verify the repository manifest",
	Long: `Generate the manifest for a preset tree, or verify the tree against
an existing manifest.

Generation walks every JSON file under the root, computes chunked
SHA-256 checksums, validates each file, and writes a manifest snapshot
with folder and repository digests plus collection statistics. Files
that fail analysis are recorded as failed; generation always completes.

Verification compares the current tree against the saved manifest and
classifies every difference as changed, missing, or extra.

Examples:
  # Generate the manifest for ./devices
  midivault checksum ./devices

  # Verify ./devices against its manifest
  midivault checksum ./devices --verify

  # Verify against a manifest stored elsewhere
  midivault checksum ./devices --verify --manifest /backups/manifest.json

  # Machine-readable verification report
  midivault checksum ./devices --verify --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChecksum,
}

func init() {
	rootCmd.AddCommand(checksumCmd)

	checksumCmd.Flags().BoolVar(&checksumFlags.verify, "verify", false, "verify the tree against the manifest instead of generating")
	checksumCmd.Flags().StringVar(&checksumFlags.manifestPath, "manifest", "", "manifest path (default: <root>/_manifest.json)")
	checksumCmd.Flags().StringVar(&checksumFlags.format, "format", "text", "output format: text, json")
}

func runChecksum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := cfg.Repository.Root
	if len(args) > 0 {
		root = args[0]
	}

	manifestPath := checksumFlags.manifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(root, manifest.FileName)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	generator := manifest.NewGenerator(root)

	if checksumFlags.verify {
		return verifyTree(cmd, cfg, generator, collector, store, root, manifestPath)
	}
	return generateManifest(cmd, generator, collector, store, root, manifestPath)
}

func generateManifest(cmd *cobra.Command, g *manifest.Generator, collector *metrics.Collector, store *history.Store, root, manifestPath string) error {
	start := time.Now()

	m, err := g.Generate()
	if err != nil {
		collector.RecordRun(history.KindGenerate, "error", time.Since(start), 0)
		return cli.NewCommandError("checksum", err)
	}
	if err := g.Save(m, manifestPath); err != nil {
		return cli.NewCommandError("checksum", err)
	}

	files := len(m.FileChecksums)
	status := "ok"
	if m.Statistics.ValidationSummary.Failed > 0 {
		status = "partial"
	}
	collector.RecordRun(history.KindGenerate, status, time.Since(start), files)

	recordRun(store, &history.Run{
		Kind:               history.KindGenerate,
		StartedAt:          start,
		FinishedAt:         time.Now(),
		Root:               root,
		RepositoryRevision: m.Metadata.RepositoryRevision,
		OK:                 m.Statistics.ValidationSummary.Failed == 0,
		RepositoryChecksum: m.RepositoryChecksum,
		FilesTotal:         files,
		FilesPassed:        m.Statistics.ValidationSummary.Passed,
		FilesFailed:        m.Statistics.ValidationSummary.Failed,
	})

	if checksumFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), m)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Manifest written to %s\n", manifestPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  Devices:  %d\n", m.Metadata.TotalDevices)
	fmt.Fprintf(cmd.OutOrStdout(), "  Presets:  %d\n", m.Metadata.TotalPresets)
	fmt.Fprintf(cmd.OutOrStdout(), "  Files:    %d (%d passed, %d failed)\n",
		files, m.Statistics.ValidationSummary.Passed, m.Statistics.ValidationSummary.Failed)
	fmt.Fprintf(cmd.OutOrStdout(), "  Checksum: %s\n", m.RepositoryChecksum)
	return nil
}

func verifyTree(cmd *cobra.Command, cfg *config.Config, g *manifest.Generator, collector *metrics.Collector, store *history.Store, root, manifestPath string) error {
	start := time.Now()

	report := g.Verify(manifestPath)

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

	if checksumFlags.format == "json" {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printVerificationReport(cmd, report)
	}

	if !report.OK() {
		return cli.NewCommandError("checksum", fmt.Errorf(
			"verification failed: %d changed, %d missing, %d extra",
			report.FilesFailed, report.MissingFiles, report.ExtraFiles))
	}
	return nil
}

func printVerificationReport(cmd *cobra.Command, report *manifest.VerificationReport) {
	out := cmd.OutOrStdout()

	if report.LoadError != "" {
		fmt.Fprintf(out, "Cannot verify: %s\n", report.LoadError)
		return
	}

	fmt.Fprintf(out, "Verified: %d files\n", report.FilesVerified)
	for _, p := range report.Changed {
		fmt.Fprintf(out, "  changed: %s\n", p)
	}
	for _, p := range report.Missing {
		fmt.Fprintf(out, "  missing: %s\n", p)
	}
	for _, p := range report.Extra {
		fmt.Fprintf(out, "  extra:   %s\n", p)
	}
	if report.OK() {
		fmt.Fprintln(out, "Repository matches the manifest.")
	}
}

// openHistory opens the audit store, or returns nil when history is
// disabled or the store cannot be opened. Recording is best-effort
// and never fails a run.
func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.NewStore(&history.Config{
		Path:         cfg.History.SQLitePath,
		MaxOpenConns: cfg.History.MaxOpenConns,
		MaxIdleConns: cfg.History.MaxIdleConns,
		WALMode:      cfg.History.WALMode,
		BusyTimeout:  cfg.History.BusyTimeout,
	})
	if err != nil {
		slog.Warn("history store unavailable, runs will not be recorded", "error", err)
		return nil
	}
	if cfg.History.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.History.RetentionDays)
		store.PruneBefore(context.Background(), cutoff)
	}
	return store
}

func recordRun(store *history.Store, run *history.Run) {
	if store == nil {
		return
	}
	store.RecordRun(context.Background(), run)
}
