package engine

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/poolsort/internal/config"
	"github.com/roach88/poolsort/internal/queue"
)

// MaxWorkers is the largest pool Sort will build.
const MaxWorkers = 4096

// State is a coordinator lifecycle state.
type State int

const (
	StateSeeding State = iota + 1
	StateDraining
	StateShuttingDown
	StateJoined
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSeeding:
		return "seeding"
	case StateDraining:
		return "draining"
	case StateShuttingDown:
		return "shutting_down"
	case StateJoined:
		return "joined"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// coordinator seeds the root range, waits for its Finish, and drives the
// shutdown broadcast. It runs on the goroutine that called Sort.
type coordinator[E cmp.Ordered] struct {
	pool      *pool[E]
	state     State
	completed int
	log       *slog.Logger
}

// transition moves to the next state. States are never skipped or repeated.
func (c *coordinator[E]) transition(next State) {
	if next != c.state+1 {
		panic(fmt.Sprintf("engine: invalid coordinator transition %s -> %s", c.state, next))
	}
	c.log.Debug("coordinator state", "from", c.state, "to", next)
	c.state = next
}

func (c *coordinator[E]) run(root Range) {
	p := c.pool

	c.transition(StateSeeding)
	p.tracker.root(root)
	p.record(p.clock.Next(), CoordinatorID, EventSeed, root)
	p.tasks.Enqueue(Work(root))

	c.transition(StateDraining)
	for c.completed == 0 {
		msg := p.done.Dequeue()
		if msg.Kind == KindFinish && msg.Range == root {
			c.completed++
			p.record(p.clock.Next(), CoordinatorID, EventComplete, root)
			continue
		}

		// Not ours to account for; hand it back to the workers unchanged.
		c.log.Warn("coordinator passing message through", "message", msg.String())
		p.tasks.Enqueue(msg)
	}

	c.transition(StateShuttingDown)
	p.record(p.clock.Next(), CoordinatorID, EventShutdown, Range{})
	p.tasks.Enqueue(Shutdown())

	p.wg.Wait()
	c.transition(StateJoined)
}

// settle checks the pool's end state after a normal run: no tracked ranges
// and exactly the final forwarded Shutdown left in the task queue.
func (c *coordinator[E]) settle() {
	p := c.pool
	if n := p.tracker.inFlight(); n != 0 {
		panic(fmt.Sprintf("engine: %d ranges still tracked after join", n))
	}
	msg, ok := p.tasks.TryDequeue()
	if !ok || msg.Kind != KindShutdown || p.tasks.Len() != 0 {
		panic(fmt.Sprintf("engine: task queue not drained after join (left %s, %d more)", msg, p.tasks.Len()))
	}
}

// Sort sorts a in place in ascending order using cfg.Threads workers and
// blocks until every worker has exited.
//
// The returned report is non-nil whenever the pool ran, including when the
// verification scan fails.
func Sort[E cmp.Ordered](a []E, cfg config.Config, opts ...Option) (*Report, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	runID := o.runIDs.Generate()
	log := o.logger.With("run", runID)

	if err := cfg.Validate(); err != nil {
		return nil, NewConfigError(runID, err)
	}
	if cfg.Threads > MaxWorkers {
		return nil, NewAllocationError(runID, "worker pool",
			fmt.Errorf("%d workers exceeds limit of %d", cfg.Threads, MaxWorkers))
	}

	tasks, err := queue.New[Message](cfg.QueueCapacity)
	if err != nil {
		return nil, NewAllocationError(runID, "task queue", err)
	}
	done, err := queue.New[Message](cfg.Threads + 1)
	if err != nil {
		return nil, NewAllocationError(runID, "completion queue", err)
	}

	p := &pool[E]{
		a:       a,
		cutoff:  cfg.Cutoff,
		tasks:   tasks,
		done:    done,
		tracker: newTracker(),
		clock:   NewClock(),
		rec:     o.recorder,
		log:     log,
	}

	log.Debug("sort starting",
		"size", len(a),
		"threads", cfg.Threads,
		"cutoff", cfg.Cutoff,
		"queue_capacity", cfg.QueueCapacity,
	)

	start := time.Now()
	if err := p.start(cfg.Threads, o.spawner, runID); err != nil {
		return nil, err
	}

	c := &coordinator[E]{pool: p, log: log}
	c.run(Range{First: 0, Last: len(a)})
	c.settle()

	report := &Report{
		RunID:    runID,
		Size:     len(a),
		Config:   cfg,
		Stats:    p.stats.snapshot(int64(c.completed)),
		Duration: time.Since(start),
	}

	if cfg.Verify {
		if err := Verify(a); err != nil {
			var se *SortError
			if !errors.As(err, &se) {
				return report, err
			}
			se.RunID = runID
			log.Error("sort verification failed", "index", se.Index, "next", se.Next)
			return report, se
		}
	}

	log.Info("sort complete",
		"size", len(a),
		"threads", cfg.Threads,
		"hand_offs", report.Stats.HandOffs,
		"inline_fallbacks", report.Stats.InlineFallbacks,
		"trace_seq", p.clock.Current(),
		"duration", report.Duration,
	)
	return report, nil
}
