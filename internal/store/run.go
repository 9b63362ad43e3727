package store

import (
	"errors"
	"time"

	"github.com/roach88/poolsort/internal/engine"
)

// OutcomeOK is the outcome of a run that sorted and verified cleanly.
const OutcomeOK = "ok"

// Run is one row of run history.
type Run struct {
	ID            string        `json:"id"`
	StartedAt     time.Time     `json:"started_at"`
	Size          int           `json:"size"`
	Threads       int           `json:"threads"`
	Cutoff        int           `json:"cutoff"`
	QueueCapacity int           `json:"queue_capacity"`
	Stats         engine.Stats  `json:"stats"`
	Duration      time.Duration `json:"duration_ns"`
	Outcome       string        `json:"outcome"`
	Error         string        `json:"error,omitempty"`
}

// NewRun builds a history row from a sort report and the error Sort
// returned alongside it, if any.
func NewRun(report *engine.Report, startedAt time.Time, sortErr error) Run {
	run := Run{
		ID:            report.RunID,
		StartedAt:     startedAt,
		Size:          report.Size,
		Threads:       report.Config.Threads,
		Cutoff:        report.Config.Cutoff,
		QueueCapacity: report.Config.QueueCapacity,
		Stats:         report.Stats,
		Duration:      report.Duration,
		Outcome:       OutcomeOK,
	}

	if sortErr != nil {
		run.Outcome = "error"
		var se *engine.SortError
		if errors.As(sortErr, &se) {
			run.Outcome = string(se.Code)
		}
		run.Error = sortErr.Error()
	}
	return run
}
