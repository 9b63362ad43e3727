package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/poolsort/internal/dataset"
)

// GenOptions holds flags for the gen command.
type GenOptions struct {
	*RootOptions
	Seed   uint64
	Output string
}

// GenResult is the JSON payload of the gen command.
type GenResult struct {
	Count  int       `json:"count"`
	Seed   uint64    `json:"seed"`
	Values []float64 `json:"values,omitempty"`
	Output string    `json:"output,omitempty"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen <count>",
		Short: "Generate random input values",
		Long: `Generate count pseudo-random values in [0, 1), one per line.

The same seed always produces the same values.

Examples:
  poolsort gen 1000 > values.txt
  poolsort gen 1000000 --seed 42 --output values.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write values to file instead of stdout")

	return cmd
}

func runGen(opts *GenOptions, countArg string, cmd *cobra.Command) error {
	count, err := strconv.Atoi(countArg)
	if err != nil || count < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid count %q: must be a non-negative integer", countArg))
	}

	values := dataset.Generate(count, opts.Seed)
	f := opts.formatter(cmd)

	if opts.Output != "" {
		out, err := os.Create(opts.Output)
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
		result := GenResult{Count: count, Seed: opts.Seed, Output: opts.Output}
		if opts.Output == "" {
			result.Values = values
		}
		return f.Data(result)
	}

	if opts.Output != "" {
		f.Summary("wrote %d values to %s", count, opts.Output)
		return nil
	}
	if err := dataset.Write(f.Out, values); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}
