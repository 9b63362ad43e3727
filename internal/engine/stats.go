package engine

import (
	"sync/atomic"
	"time"

	"github.com/roach88/poolsort/internal/config"
)

// Stats counts protocol activity for one run.
type Stats struct {
	// WorkMessages is the number of Work messages processed by workers.
	WorkMessages int64 `json:"work_messages"`

	// FinishMessages is the number of Finish messages processed by workers.
	FinishMessages int64 `json:"finish_messages"`

	// HandOffs is the number of sub-ranges queued as new Work.
	HandOffs int64 `json:"hand_offs"`

	// InlineFallbacks counts sub-ranges sorted locally because the task
	// queue was full when they were offered.
	InlineFallbacks int64 `json:"inline_fallbacks"`

	// InlineFinishes counts Finish notifications handled by the reporting
	// worker because the task queue was full.
	InlineFinishes int64 `json:"inline_finishes"`

	// ShutdownHops is the number of workers that observed Shutdown.
	ShutdownHops int64 `json:"shutdown_hops"`

	// Completions is the number of root Finish messages the coordinator matched.
	Completions int64 `json:"completions"`
}

type counters struct {
	work           atomic.Int64
	finish         atomic.Int64
	handOffs       atomic.Int64
	inline         atomic.Int64
	inlineFinishes atomic.Int64
	shutdownHops   atomic.Int64
}

func (c *counters) snapshot(completions int64) Stats {
	return Stats{
		WorkMessages:    c.work.Load(),
		FinishMessages:  c.finish.Load(),
		HandOffs:        c.handOffs.Load(),
		InlineFallbacks: c.inline.Load(),
		InlineFinishes:  c.inlineFinishes.Load(),
		ShutdownHops:    c.shutdownHops.Load(),
		Completions:     completions,
	}
}

// Report describes a finished Sort call.
type Report struct {
	RunID    string        `json:"run_id"`
	Size     int           `json:"size"`
	Config   config.Config `json:"config"`
	Stats    Stats         `json:"stats"`
	Duration time.Duration `json:"duration_ns"`
}
