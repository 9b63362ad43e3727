package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/poolsort/internal/engine"
	"github.com/roach88/poolsort/internal/store"
)

// execute runs cmd with args and returns stdout and stderr separately.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// seedDatabase creates a database holding the given runs and traces.
func seedDatabase(t *testing.T, runs []store.Run, traces map[string][]engine.TraceEvent) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	for _, r := range runs {
		require.NoError(t, st.WriteRun(ctx, r))
	}
	for id, events := range traces {
		require.NoError(t, st.WriteTrace(ctx, id, events))
	}
	return dbPath
}

func historyRuns() []store.Run {
	return []store.Run{
		{
			ID:            "run-a",
			StartedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Size:          1234567,
			Threads:       8,
			Cutoff:        10,
			QueueCapacity: 65536,
			Stats: engine.Stats{
				WorkMessages:   1500,
				FinishMessages: 1500,
				HandOffs:       1499,
				ShutdownHops:   8,
			},
			Duration: 250 * time.Millisecond,
			Outcome:  store.OutcomeOK,
		},
		{
			ID:            "run-b",
			StartedAt:     time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
			Size:          6,
			Threads:       4,
			Cutoff:        2,
			QueueCapacity: 1,
			Stats: engine.Stats{
				WorkMessages:    3,
				FinishMessages:  3,
				HandOffs:        2,
				InlineFallbacks: 1,
				ShutdownHops:    4,
			},
			Duration: 1500 * time.Microsecond,
			Outcome:  string(engine.ErrCodeOrderingViolation),
			Error:    "ORDERING_VIOLATION: array not sorted: 3 > 1 (index=2, next=3) (run=run-b)",
		},
	}
}

func traceEvents() []engine.TraceEvent {
	c := engine.CoordinatorID
	return []engine.TraceEvent{
		{Seq: 1, Worker: c, Event: engine.EventSeed, First: 0, Last: 6},
		{Seq: 2, Worker: 0, Event: engine.EventWork, First: 0, Last: 6},
		{Seq: 3, Worker: 0, Event: engine.EventHandOff, First: 0, Last: 3},
		{Seq: 4, Worker: 0, Event: engine.EventHandOff, First: 3, Last: 6},
		{Seq: 5, Worker: 1, Event: engine.EventWork, First: 0, Last: 3},
		{Seq: 6, Worker: 1, Event: engine.EventFinish, First: 0, Last: 3},
		{Seq: 7, Worker: c, Event: engine.EventComplete, First: 0, Last: 6},
		{Seq: 8, Worker: c, Event: engine.EventShutdown},
		{Seq: 9, Worker: 0, Event: engine.EventExit},
	}
}
