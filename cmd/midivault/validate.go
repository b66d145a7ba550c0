package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tirans/midivault/pkg/cli"
	"github.com/tirans/midivault/pkg/history"
	"github.com/tirans/midivault/pkg/telemetry/metrics"
	"github.com/tirans/midivault/pkg/validation"
)

var validateFlags struct {
	strict bool
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate device preset files",
	Long: `Run the full validation pipeline over one or more device files.

Each file passes through four stages in fixed order: structure
(location and naming within the tree), content (JSON syntax and device
schema), security (suspicious content patterns), and business rules
(preset uniqueness, MIDI ranges, collection consistency, data
integrity). Every stage runs even after earlier failures so the report
is complete.

Warnings do not fail a file. With --strict they do.

Examples:
  # Validate one device file
  midivault validate devices/korg/ms-20.json

  # Validate several files, treating warnings as failures
  midivault validate --strict devices/korg/*.json

  # Machine-readable report
  midivault validate --format json devices/korg/ms-20.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "treat warnings as failures")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	strict := validateFlags.strict || cfg.Validation.Strict

	runner := validation.NewRunner(validation.Options{
		MaxDepth:      cfg.Validation.MaxDepth,
		MaxFileSizeMB: cfg.Validation.MaxFileSizeMB,
	})

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	start := time.Now()
	batch := runner.Validate(args)

	failed := 0
	for _, fr := range batch.Files {
		ok := fr.Valid && (!strict || len(fr.Warnings()) == 0)
		if !ok {
			failed++
		}

		status := "passed"
		if !ok {
			status = "failed"
		}
		collector.RecordFileValidated(status)
		for _, issue := range fr.Issues {
			collector.RecordIssue(issue.Validator, string(issue.Severity))
		}
	}

	status := "ok"
	if failed > 0 {
		status = "invalid"
	}
	collector.RecordRun(history.KindValidate, status, time.Since(start), len(args))

	recordRun(store, &history.Run{
		Kind:        history.KindValidate,
		StartedAt:   start,
		FinishedAt:  time.Now(),
		Root:        ".",
		OK:          failed == 0,
		FilesTotal:  len(args),
		FilesPassed: len(args) - failed,
		FilesFailed: failed,
		Errors:      batch.TotalErrors,
		Warnings:    batch.TotalWarnings,
	})

	if validateFlags.format == "json" {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), batch); err != nil {
			return err
		}
	} else {
		printBatch(cmd, batch, strict)
	}

	if failed > 0 {
		return cli.NewCommandError("validate", fmt.Errorf("%d of %d files failed validation", failed, len(args)))
	}
	return nil
}

func printBatch(cmd *cobra.Command, batch validation.BatchResult, strict bool) {
	out := cmd.OutOrStdout()

	for _, fr := range batch.Files {
		ok := fr.Valid && (!strict || len(fr.Warnings()) == 0)
		verdict := "PASS"
		if !ok {
			verdict = "FAIL"
		}
		fmt.Fprintf(out, "%s  %s\n", verdict, fr.Path)
		for _, issue := range fr.Issues {
			fmt.Fprintf(out, "      %s\n", issue)
		}
	}

	fmt.Fprintf(out, "\n%d files, %d errors, %d warnings\n",
		len(batch.Files), batch.TotalErrors, batch.TotalWarnings)
}
