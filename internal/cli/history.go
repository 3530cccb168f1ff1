package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/recon430/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Run      string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded reconciliation runs",
		Long: `List past reconciliation runs recorded with compare --db, newest first.

With --run, show one stored run in full, including its rendered report.

Example:
  recon430 history --db runs.db
  recon430 history --db runs.db --run 0d3f...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show a single run by id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.Run != "" {
		rec, res, err := st.GetRun(ctx, opts.Run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("run %s not found", opts.Run), err)
		}
		if opts.Format == "json" {
			return formatter.Success(map[string]any{"run": rec, "result": res})
		}
		return formatter.Success(formatRunDetail(rec))
	}

	records, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if opts.Format == "json" {
		return formatter.Success(records)
	}
	return formatter.Success(formatRunList(records))
}

func formatRunList(records []store.RunRecord) string {
	if len(records) == 0 {
		return "no runs recorded\n"
	}
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "%s  %s  ok=%d divergent=%d missing=%d\n",
			rec.ID,
			rec.CreatedAt.Format(time.RFC3339),
			rec.Summary.OkCount,
			rec.Summary.DivergentCount,
			rec.Summary.MissingCount)
	}
	return b.String()
}

func formatRunDetail(rec *store.RunRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", rec.ID)
	fmt.Fprintf(&b, "recorded %s (%s)\n\n", rec.CreatedAt.Format(time.RFC3339), rec.Timezone)
	b.WriteString(rec.Report)
	return b.String()
}
