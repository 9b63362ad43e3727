package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/poolsort/internal/config"
	"github.com/roach88/poolsort/internal/dataset"
	"github.com/roach88/poolsort/internal/engine"
	"github.com/roach88/poolsort/internal/store"
)

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	Generate      int
	Seed          uint64
	Threads       int
	Cutoff        int
	QueueCapacity int
	NoVerify      bool
	Output        string
	Database      string
	Trace         bool

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// SortResult is the JSON payload of a successful sort.
type SortResult struct {
	RunID         string        `json:"run_id"`
	Size          int           `json:"size"`
	Threads       int           `json:"threads"`
	Cutoff        int           `json:"cutoff"`
	QueueCapacity int           `json:"queue_capacity"`
	Values        []float64     `json:"values,omitempty"`
	Output        string        `json:"output,omitempty"`
	Stats         *engine.Stats `json:"stats,omitempty"` // only with --verbose
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	return newSortCommandWith(&SortOptions{RootOptions: rootOpts})
}

func newSortCommandWith(opts *SortOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort numbers with the worker pool",
		Long: `Sort whitespace-separated numbers read from a file or stdin.

Values are written one per line in ascending order. Use --generate to sort
seeded random values instead of reading input. Flags override values from
--config. With --db the run is recorded in the history database; add
--trace to record every queue message as well.

Examples:
  poolsort sort values.txt
  poolsort sort --generate 1000000 --threads 8 --output sorted.txt
  poolsort sort --db ./runs.db --trace values.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Generate, "generate", 0, "sort N generated values instead of reading input")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "seed for --generate")
	cmd.Flags().IntVarP(&opts.Threads, "threads", "t", 0, "number of workers (overrides config)")
	cmd.Flags().IntVar(&opts.Cutoff, "cutoff", 0, "insertion-sort cutoff (overrides config)")
	cmd.Flags().IntVar(&opts.QueueCapacity, "queue-capacity", 0, "task queue capacity (overrides config)")
	cmd.Flags().BoolVar(&opts.NoVerify, "no-verify", false, "skip the ordering check after sorting")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write sorted values to file instead of stdout")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "record trace events (requires --db)")

	return cmd
}

func runSort(opts *SortOptions, args []string, cmd *cobra.Command) error {
	if opts.Trace && opts.Database == "" {
		return NewExitError(ExitCommandError, "--trace requires --db")
	}
	if opts.Generate > 0 && len(args) > 0 {
		return NewExitError(ExitCommandError, "--generate cannot be combined with an input file")
	}

	cfg, err := opts.effectiveConfig(cmd)
	if err != nil {
		return err
	}

	values, err := opts.readValues(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	logger := opts.newLogger(cmd.ErrOrStderr())
	sortOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.RunIDs != nil {
		sortOpts = append(sortOpts, engine.WithRunIDs(opts.RunIDs))
	}
	var rec *engine.MemoryRecorder
	if opts.Trace {
		rec = engine.NewMemoryRecorder()
		sortOpts = append(sortOpts, engine.WithRecorder(rec))
	}

	startedAt := time.Now().UTC()
	report, sortErr := engine.Sort(values, cfg, sortOpts...)
	if report == nil {
		if engine.IsConfigError(sortErr) {
			return WrapExitError(ExitCommandError, "invalid configuration", sortErr)
		}
		return WrapExitError(ExitFailure, "sort failed", sortErr)
	}

	if opts.Database != "" {
		if err := recordRun(cmd.Context(), opts.Database, store.NewRun(report, startedAt, sortErr), rec); err != nil {
			return err
		}
	}

	if sortErr != nil {
		return WrapExitError(ExitFailure, "sort failed", sortErr)
	}

	return opts.writeResult(cmd, report, values)
}

// effectiveConfig loads --config and applies flag overrides.
func (o *SortOptions) effectiveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Threads = o.Threads
	}
	if flags.Changed("cutoff") {
		cfg.Cutoff = o.Cutoff
	}
	if flags.Changed("queue-capacity") {
		cfg.QueueCapacity = o.QueueCapacity
	}
	if o.NoVerify {
		cfg.Verify = false
	}
	return cfg, nil
}

func (o *SortOptions) readValues(args []string, stdin io.Reader) ([]float64, error) {
	if o.Generate < 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("--generate must be positive, got %d", o.Generate))
	}
	if o.Generate > 0 {
		return dataset.Generate(o.Generate, o.Seed), nil
	}

	r := stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		r = f
	}

	values, err := dataset.Read(r)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return values, nil
}

// recordRun stores the run and, when rec is non-nil, its trace.
func recordRun(ctx context.Context, path string, run store.Run, rec *engine.MemoryRecorder) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if err := st.WriteRun(ctx, run); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	if rec != nil {
		if err := st.WriteTrace(ctx, run.ID, rec.Events()); err != nil {
			return WrapExitError(ExitCommandError, "failed to record trace", err)
		}
	}
	return nil
}

func (o *SortOptions) writeResult(cmd *cobra.Command, report *engine.Report, values []float64) error {
	f := o.formatter(cmd)

	if o.Output != "" {
		out, err := os.Create(o.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create output", err)
		}
		if err := dataset.Write(out, values); err != nil {
			out.Close()
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		if err := out.Close(); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if f.isJSON() {
		result := SortResult{
			RunID:         report.RunID,
			Size:          report.Size,
			Threads:       report.Config.Threads,
			Cutoff:        report.Config.Cutoff,
			QueueCapacity: report.Config.QueueCapacity,
			Output:        o.Output,
		}
		if o.Output == "" {
			result.Values = values
		}
		if o.Verbose {
			stats := report.Stats
			result.Stats = &stats
		}
		return f.Data(result)
	}

	if o.Output == "" {
		if err := dataset.Write(f.Out, values); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		f.Summary("sorted %d values into %s", report.Size, o.Output)
	}

	f.Verbosef("run %s: %d values, %d threads, %d hand-offs, %d inline fallbacks, %d shutdown hops in %s",
		report.RunID,
		report.Size,
		report.Config.Threads,
		report.Stats.HandOffs,
		report.Stats.InlineFallbacks,
		report.Stats.ShutdownHops,
		report.Duration,
	)
	return nil
}
