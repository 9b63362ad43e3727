package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/poolsort/internal/engine"
	"github.com/roach88/poolsort/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Worker   int // filter; -2 shows every worker
}

const allWorkers = -2

// TraceResult holds the complete trace output.
type TraceResult struct {
	RunID  string              `json:"run_id"`
	Events []engine.TraceEvent `json:"events"`
	Counts map[string]int      `json:"counts"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the recorded trace of a run",
		Long: `Show the message-level trace of a run recorded with sort --db --trace.

Events are listed in logical clock order. Worker -1 is the coordinator.

Examples:
  poolsort trace --db ./runs.db --run 0190d1c4-...
  poolsort trace --db ./runs.db --run 0190d1c4-... --worker 0 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to trace (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().IntVar(&opts.Worker, "worker", allWorkers, "only show events of this worker (-1 for the coordinator)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openHistory(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.ReadRun(ctx, opts.RunID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	events, err := st.ReadTrace(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	result := TraceResult{
		RunID:  opts.RunID,
		Events: filterWorker(events, opts.Worker),
		Counts: map[string]int{},
	}
	for _, ev := range result.Events {
		result.Counts[ev.Event]++
	}

	f := opts.formatter(cmd)
	if f.isJSON() {
		return outputTraceJSON(f.Out, result)
	}
	outputTraceText(f.Out, result)
	return nil
}

func filterWorker(events []engine.TraceEvent, worker int) []engine.TraceEvent {
	if worker == allWorkers {
		return events
	}
	out := []engine.TraceEvent{}
	for _, ev := range events {
		if ev.Worker == worker {
			out = append(out, ev)
		}
	}
	return out
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(w io.Writer, result TraceResult) error {
	response := Response{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult) {
	fmt.Fprintf(w, "Trace for run: %s\n", result.RunID)
	fmt.Fprintln(w)

	if len(result.Events) == 0 {
		fmt.Fprintln(w, "  (no events)")
		return
	}
	for _, ev := range result.Events {
		line := fmt.Sprintf("  [%d] %-11s %-8s %s", ev.Seq, workerLabel(ev.Worker), ev.Event, formatRange(ev))
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func workerLabel(id int) string {
	if id == engine.CoordinatorID {
		return "coordinator"
	}
	return fmt.Sprintf("worker %d", id)
}

func formatRange(ev engine.TraceEvent) string {
	if ev.Event == engine.EventShutdown || ev.Event == engine.EventExit {
		return ""
	}
	return engine.Range{First: ev.First, Last: ev.Last}.String()
}

// openHistory opens an existing history database without modifying it.
func openHistory(path string) (*store.Store, error) {
	st, err := store.OpenReadOnly(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
