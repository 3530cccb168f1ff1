package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/recon430/internal/config"
	"github.com/fieldops/recon430/internal/recon"
	"github.com/fieldops/recon430/internal/sheet"
	"github.com/fieldops/recon430/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Timezone string
	Rules    string
	Database string
	At       string

	// Now allows overriding the wall clock (for testing). If nil,
	// defaults to time.Now.
	Now func() time.Time
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <transcript> <workbook.xlsx>",
		Short: "Reconcile a chat transcript against the official export",
		Long: `Reconcile technician self-reports from a chat transcript against the
closed work orders in an xlsx export.

Each contract reported as pending equipment return is classified as OK
(a matching official row names the same technician), divergent (official
rows exist but under other technicians), or missing (no official row
closed on the reference day).

Example:
  recon430 compare chat.txt export.xlsx
  recon430 compare chat.txt export.xlsx --at 2026-02-24T12:00:00-03:00 --db runs.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Timezone, "tz", "America/Sao_Paulo", "IANA timezone for the reference day")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "path to YAML rules file (defaults to built-in rules)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run history (optional)")
	cmd.Flags().StringVar(&opts.At, "at", "", "reference instant, RFC 3339 (defaults to now)")

	return cmd
}

func runCompare(opts *CompareOptions, transcriptPath, workbookPath string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	rules := config.Default()
	if opts.Rules != "" {
		var err error
		rules, err = config.Load(opts.Rules)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load rules", err)
		}
	}

	zone, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("unknown timezone %q", opts.Timezone), err)
	}

	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}
	if opts.At != "" {
		now, err = time.Parse(time.RFC3339, opts.At)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --at instant %q", opts.At), err)
		}
	}

	// Read both inputs up front so a missing file fails before any work.
	transcript, err := os.ReadFile(transcriptPath)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("transcript not readable: %s", transcriptPath), err)
	}
	workbook, err := os.ReadFile(workbookPath)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("workbook not readable: %s", workbookPath), err)
	}

	slog.Info("reconciling", "transcript", transcriptPath, "workbook", workbookPath, "tz", opts.Timezone, "at", now.Format(time.RFC3339))

	res, err := recon.Run(string(transcript), workbook, now, zone, rules)
	if err != nil {
		if sheet.IsSheetNotResolved(err) || sheet.IsColumnNotResolved(err) {
			return WrapExitError(ExitCommandError, "workbook layout not recognized", err)
		}
		return WrapExitError(ExitCommandError, "reconciliation failed", err)
	}

	slog.Debug("run classified",
		"run_id", res.RunID,
		"events", res.Summary.TotalChatEvents,
		"ok", res.Summary.OkCount,
		"divergent", res.Summary.DivergentCount,
		"missing", res.Summary.MissingCount)

	if opts.Database != "" {
		if err := saveRun(cmd.Context(), opts.Database, res, opts.Timezone, now); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		slog.Info("run recorded", "run_id", res.RunID, "db", opts.Database)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Success(res); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	if res.Summary.DivergentCount > 0 || res.Summary.MissingCount > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d divergent, %d missing",
			res.Summary.DivergentCount, res.Summary.MissingCount))
	}
	return nil
}

func saveRun(ctx context.Context, path string, res *recon.Result, timezone string, at time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return st.SaveRun(ctx, res, timezone, at)
}

// configureLogging installs the default slog handler on stderr.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
