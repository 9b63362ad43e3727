package queue

import (
	"errors"
	"fmt"
	"sync"
)

// MaxCapacity is the largest ring buffer New will allocate.
const MaxCapacity = 1 << 24

var (
	// ErrCapacity is returned by New when the requested capacity cannot be allocated.
	ErrCapacity = errors.New("queue: invalid capacity")

	// ErrOverflow marks a broken capacity invariant. Enqueue panics with an
	// error wrapping it; it is never returned.
	ErrOverflow = errors.New("queue: overflow invariant violated")
)

// Bounded is a fixed-capacity FIFO ring buffer safe for any number of
// producers and consumers.
//
// A single mutex guards the buffer and its counters. Producers wait on
// hasSpace while the buffer is full; consumers wait on hasItem while it is
// empty. Waiting releases the mutex and the condition is re-checked after
// every wakeup, so spurious or stolen wakeups are harmless.
type Bounded[T any] struct {
	mu       sync.Mutex
	hasSpace *sync.Cond
	hasItem  *sync.Cond

	buf   []T
	head  int // next slot to dequeue
	tail  int // next slot to enqueue
	count int
}

// New allocates a queue holding at most capacity elements.
func New[T any](capacity int) (*Bounded[T], error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d (must be in [1, %d])", ErrCapacity, capacity, MaxCapacity)
	}

	q := &Bounded[T]{buf: make([]T, capacity)}
	q.hasSpace = sync.NewCond(&q.mu)
	q.hasItem = sync.NewCond(&q.mu)
	return q, nil
}

// Enqueue appends v, blocking while the queue is full.
func (q *Bounded[T]) Enqueue(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == len(q.buf) {
		q.hasSpace.Wait()
	}
	q.push(v)
}

// TryEnqueue appends v if there is room and reports whether it did.
// A refused value stays with the caller.
func (q *Bounded[T]) TryEnqueue(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == len(q.buf) {
		return false
	}
	q.push(v)
	return true
}

// Dequeue removes and returns the oldest element, blocking while the queue
// is empty.
func (q *Bounded[T]) Dequeue() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 {
		q.hasItem.Wait()
	}
	return q.pop()
}

// TryDequeue removes the oldest element if one is present.
func (q *Bounded[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.pop(), true
}

// Len returns the number of queued elements.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the fixed capacity.
func (q *Bounded[T]) Cap() int {
	return len(q.buf)
}

// push must be called with mu held and room available.
func (q *Bounded[T]) push(v T) {
	if q.count >= len(q.buf) {
		panic(fmt.Errorf("%w: count %d, capacity %d", ErrOverflow, q.count, len(q.buf)))
	}

	q.buf[q.tail] = v
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++
	q.hasItem.Signal()
}

// pop must be called with mu held and at least one element queued.
func (q *Bounded[T]) pop() T {
	v := q.buf[q.head]

	// Zero the slot so the buffer does not retain references.
	var zero T
	q.buf[q.head] = zero

	q.head = (q.head + 1) % len(q.buf)
	q.count--
	q.hasSpace.Signal()
	return v
}
