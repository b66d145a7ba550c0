package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tirans/midivault/pkg/cli"
	"github.com/tirans/midivault/pkg/history"
)

var historyFlags struct {
	kind   string
	failed bool
	limit  int
	format string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded checksum and validation runs",
	Long: `Query the run audit trail.

Every generate, verify, and validate invocation is recorded in a local
SQLite database (when history is enabled in the configuration). This
command lists recorded runs, newest first.

Examples:
  # Show the most recent runs
  midivault history

  # Show only verify runs that found drift
  midivault history --kind verify --failed

  # Machine-readable output
  midivault history --format json --limit 50`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.kind, "kind", "", "filter by run kind: generate, verify, validate")
	historyCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "show only failed runs")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum number of runs to show")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return cli.NewConfigError("history.enabled", "history is disabled")
	}

	store, err := history.NewStore(&history.Config{
		Path:         cfg.History.SQLitePath,
		MaxOpenConns: cfg.History.MaxOpenConns,
		MaxIdleConns: cfg.History.MaxIdleConns,
		WALMode:      cfg.History.WALMode,
		BusyTimeout:  cfg.History.BusyTimeout,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), &history.Query{
		Kind:    historyFlags.kind,
		OnlyBad: historyFlags.failed,
		Limit:   historyFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if historyFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(cmd.OutOrStdout(), runs)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		verdict := "ok"
		if !run.OK {
			verdict = "FAILED"
		}
		fmt.Fprintf(out, "%s  %-8s  %-6s  %d files (%d passed, %d failed, %d missing, %d extra)\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Kind, verdict,
			run.FilesTotal, run.FilesPassed, run.FilesFailed, run.FilesMissing, run.FilesExtra)
	}
	return nil
}
