package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/poolsort/internal/engine"
)

const runColumns = `id, started_at, size, threads, cutoff, queue_capacity,
	work_messages, finish_messages, hand_offs, inline_fallbacks, inline_finishes, shutdown_hops,
	duration_ns, outcome, error`

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
//
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadTrace returns the trace events of a run ordered by seq.
//
// Returns an empty slice (not nil) if the run has no trace.
func (s *Store) ReadTrace(ctx context.Context, runID string) ([]engine.TraceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, worker, event, first, last
		FROM trace_events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	events := []engine.TraceEvent{}
	for rows.Next() {
		var ev engine.TraceEvent
		if err := rows.Scan(&ev.Seq, &ev.Worker, &ev.Event, &ev.First, &ev.Last); err != nil {
			return nil, fmt.Errorf("scan trace event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace: %w", err)
	}
	return events, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		startedAt int64
		duration  int64
	)
	err := row.Scan(
		&run.ID,
		&startedAt,
		&run.Size,
		&run.Threads,
		&run.Cutoff,
		&run.QueueCapacity,
		&run.Stats.WorkMessages,
		&run.Stats.FinishMessages,
		&run.Stats.HandOffs,
		&run.Stats.InlineFallbacks,
		&run.Stats.InlineFinishes,
		&run.Stats.ShutdownHops,
		&duration,
		&run.Outcome,
		&run.Error,
	)
	if err == sql.ErrNoRows {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.Duration = time.Duration(duration)
	return run, nil
}
