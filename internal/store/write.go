package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/poolsort/internal/engine"
)

// ErrReadOnly is returned by writes on a store from OpenReadOnly.
var ErrReadOnly = errors.New("store: opened read-only")

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if s.readOnly {
		return ErrReadOnly
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, size, threads, cutoff, queue_capacity,
		 work_messages, finish_messages, hand_offs, inline_fallbacks, inline_finishes, shutdown_hops,
		 duration_ns, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.StartedAt.UnixNano(),
		run.Size,
		run.Threads,
		run.Cutoff,
		run.QueueCapacity,
		run.Stats.WorkMessages,
		run.Stats.FinishMessages,
		run.Stats.HandOffs,
		run.Stats.InlineFallbacks,
		run.Stats.InlineFinishes,
		run.Stats.ShutdownHops,
		int64(run.Duration),
		run.Outcome,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteTrace stores the trace events of a run in a single transaction.
//
// Note: The run referenced by runID must exist (foreign key constraint).
func (s *Store) WriteTrace(ctx context.Context, runID string, events []engine.TraceEvent) error {
	if s.readOnly {
		return ErrReadOnly
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write trace: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trace_events (run_id, seq, worker, event, first, last)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write trace: prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, runID, ev.Seq, ev.Worker, ev.Event, ev.First, ev.Last); err != nil {
			return fmt.Errorf("write trace: insert seq %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write trace: commit: %w", err)
	}
	return nil
}
