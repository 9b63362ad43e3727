package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/poolsort/internal/engine"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with minimal realistic fields.
func createTestRun(id string, startedAt int64) Run {
	return Run{
		ID:            id,
		StartedAt:     time.Unix(0, startedAt).UTC(),
		Size:          100,
		Threads:       4,
		Cutoff:        10,
		QueueCapacity: 1000,
		Stats: engine.Stats{
			WorkMessages:   7,
			FinishMessages: 7,
			HandOffs:       6,
			ShutdownHops:   4,
		},
		Duration: 1500 * time.Microsecond,
		Outcome:  OutcomeOK,
	}
}
