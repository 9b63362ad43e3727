package engine

import (
	"cmp"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/poolsort/internal/kernel"
	"github.com/roach88/poolsort/internal/queue"
)

// pool is the worker side of one sort run.
//
// Workers share the array without locking. A worker writes only the range it
// dequeued, and once it hands a sub-range off it writes only the other side
// of the partition. In-flight ranges are therefore disjoint wherever they are
// being written.
type pool[E cmp.Ordered] struct {
	a      []E
	cutoff int

	tasks *queue.Bounded[Message] // shared by all workers
	done  *queue.Bounded[Message] // root Finish, read by the coordinator

	tracker *tracker
	clock   *Clock
	rec     Recorder
	log     *slog.Logger
	stats   counters

	wg sync.WaitGroup
}

// start launches threads workers. If one fails to start, the workers
// already running are shut down and joined before the error is returned.
func (p *pool[E]) start(threads int, spawn Spawner, runID string) error {
	for id := 0; id < threads; id++ {
		p.wg.Add(1)
		err := spawn(id, func() {
			defer p.wg.Done()
			p.run(id)
		})
		if err == nil {
			continue
		}

		p.wg.Done()
		p.log.Error("worker failed to start, rolling back pool",
			"worker", id,
			"started", id,
			"error", err,
		)
		if id > 0 {
			p.tasks.Enqueue(Shutdown())
		}
		p.wg.Wait()
		return NewThreadCreationError(runID, id, id, err)
	}
	return nil
}

// run is the worker loop.
func (p *pool[E]) run(id int) {
	for {
		msg := p.tasks.Dequeue()

		switch msg.Kind {
		case KindWork:
			p.stats.work.Add(1)
			p.split(id, msg.Range)

		case KindFinish:
			p.stats.finish.Add(1)
			p.finish(id, msg.Range)

		case KindShutdown:
			p.stats.shutdownHops.Add(1)
			p.record(p.clock.Next(), id, EventShutdown, Range{})

			// Forward once so the next worker sees it too.
			p.tasks.Enqueue(msg)

			p.record(p.clock.Next(), id, EventExit, Range{})
			p.log.Debug("worker exiting", "worker", id)
			return

		default:
			panic(fmt.Sprintf("engine: worker %d received unknown message %s", id, msg))
		}
	}
}

// split sorts r as far as the kernel allows and queues its long sub-ranges.
func (p *pool[E]) split(id int, r Range) {
	p.record(p.clock.Next(), id, EventWork, r)
	p.log.Debug("work", "worker", id, "first", r.First, "last", r.Last)

	p.tracker.hold(r)
	kernel.Split(p.a, r.First, r.Last, p.cutoff, func(first, last int) bool {
		child := Range{First: first, Last: last}

		// Register before queueing: another worker may finish the child
		// before TryEnqueue returns.
		p.tracker.adopt(r, child)
		seq := p.clock.Next()
		if p.tasks.TryEnqueue(Work(child)) {
			p.stats.handOffs.Add(1)
			p.record(seq, id, EventHandOff, child)
			return true
		}

		p.tracker.disown(r, child)
		p.stats.inline.Add(1)
		p.record(seq, id, EventInline, child)
		return false
	})

	if p.tracker.release(r) {
		p.report(id, r)
	}
}

// report announces that r is complete. Finish{r} is queued when there is
// room; otherwise this worker handles it directly.
func (p *pool[E]) report(id int, r Range) {
	p.record(p.clock.Next(), id, EventFinish, r)
	if p.tasks.TryEnqueue(Finish(r)) {
		return
	}
	p.stats.inlineFinishes.Add(1)
	p.finish(id, r)
}

// finish retires r and propagates completion upward. The root's Finish goes
// to the coordinator.
func (p *pool[E]) finish(id int, r Range) {
	for {
		parent, ok := p.tracker.retire(r)
		if !ok {
			p.log.Debug("root finished", "worker", id, "first", r.First, "last", r.Last)
			p.done.Enqueue(Finish(r))
			return
		}
		if !p.tracker.release(parent) {
			return
		}

		p.record(p.clock.Next(), id, EventFinish, parent)
		if p.tasks.TryEnqueue(Finish(parent)) {
			return
		}
		p.stats.inlineFinishes.Add(1)
		r = parent
	}
}

func (p *pool[E]) record(seq int64, worker int, event string, r Range) {
	if p.rec == nil {
		return
	}
	p.rec.Record(TraceEvent{
		Seq:    seq,
		Worker: worker,
		Event:  event,
		First:  r.First,
		Last:   r.Last,
	})
}
