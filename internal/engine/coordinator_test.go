package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/poolsort/internal/queue"
)

// idlePool builds a pool with no workers so the coordinator can be driven
// by hand through its completion queue.
func idlePool(t *testing.T, capacity int) *pool[int] {
	t.Helper()
	tasks, err := queue.New[Message](capacity)
	require.NoError(t, err)
	done, err := queue.New[Message](capacity)
	require.NoError(t, err)
	return &pool[int]{
		a:       make([]int, 8),
		cutoff:  2,
		tasks:   tasks,
		done:    done,
		tracker: newTracker(),
		clock:   NewClock(),
		log:     quietLogger(),
	}
}

func TestCoordinator_PassesThroughForeignMessages(t *testing.T) {
	p := idlePool(t, 8)
	root := Range{First: 0, Last: 8}

	stray := Work(Range{First: 2, Last: 5})
	p.done.Enqueue(stray)
	p.done.Enqueue(Finish(Range{First: 0, Last: 4})) // not the root
	p.done.Enqueue(Finish(root))

	c := &coordinator[int]{pool: p, log: quietLogger()}
	c.run(root)

	assert.Equal(t, StateJoined, c.state)
	assert.Equal(t, 1, c.completed)
	assert.Equal(t, 0, p.done.Len())

	var got []Message
	for {
		msg, ok := p.tasks.TryDequeue()
		if !ok {
			break
		}
		got = append(got, msg)
	}
	assert.Equal(t, []Message{
		Work(root),
		stray,
		Finish(Range{First: 0, Last: 4}),
		Shutdown(),
	}, got)
}

func TestCoordinator_SettleAcceptsCleanPool(t *testing.T) {
	p := idlePool(t, 2)
	p.tasks.Enqueue(Shutdown())

	c := &coordinator[int]{pool: p, log: quietLogger()}
	assert.NotPanics(t, c.settle)
	assert.Equal(t, 0, p.tasks.Len())
}

func TestCoordinator_SettleRejectsLeftovers(t *testing.T) {
	t.Run("tracked range", func(t *testing.T) {
		p := idlePool(t, 2)
		p.tracker.root(Range{First: 0, Last: 8})
		p.tasks.Enqueue(Shutdown())

		c := &coordinator[int]{pool: p, log: quietLogger()}
		assert.PanicsWithValue(t, "engine: 1 ranges still tracked after join", c.settle)
	})

	t.Run("queued work", func(t *testing.T) {
		p := idlePool(t, 2)
		p.tasks.Enqueue(Shutdown())
		p.tasks.Enqueue(Work(Range{First: 0, Last: 3}))

		c := &coordinator[int]{pool: p, log: quietLogger()}
		assert.Panics(t, c.settle)
	})

	t.Run("no shutdown", func(t *testing.T) {
		p := idlePool(t, 2)

		c := &coordinator[int]{pool: p, log: quietLogger()}
		assert.Panics(t, c.settle)
	})
}
