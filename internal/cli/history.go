package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/poolsort/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sort runs",
		Long: `List runs recorded with sort --db, newest first.

Examples:
  poolsort history --db ./runs.db
  poolsort history --db ./runs.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openHistory(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	f := opts.formatter(cmd)
	if f.isJSON() {
		return f.Data(runs)
	}
	outputHistoryText(f, runs)
	return nil
}

func outputHistoryText(f *OutputFormatter, runs []store.Run) {
	if len(runs) == 0 {
		f.Summary("No runs recorded.")
		return
	}

	for _, r := range runs {
		f.Summary("%s  %s  %s", r.ID, r.StartedAt.Format(time.RFC3339), r.Outcome)
		f.Summary("  size=%d threads=%d cutoff=%d queue_capacity=%d",
			r.Size, r.Threads, r.Cutoff, r.QueueCapacity)
		f.Summary("  work=%d finish=%d hand_offs=%d inline=%d shutdown_hops=%d duration=%s",
			r.Stats.WorkMessages, r.Stats.FinishMessages, r.Stats.HandOffs,
			r.Stats.InlineFallbacks, r.Stats.ShutdownHops, r.Duration)
		if r.Error != "" {
			f.Summary("  error: %s", r.Error)
		}
	}
}
