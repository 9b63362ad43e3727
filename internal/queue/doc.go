// Package queue provides the bounded blocking FIFO that carries work between
// the sort coordinator and its workers.
//
// The queue is a ring buffer with a capacity fixed at construction. Enqueue
// blocks while the buffer is full and Dequeue blocks while it is empty; both
// wait on condition variables rather than spinning. TryEnqueue and
// TryDequeue run the same critical sections without waiting, which lets a
// producer fall back to doing the work itself when the buffer is full.
//
// Guarantees:
//   - FIFO across all producers combined
//   - no element is dropped, duplicated, or returned twice
//   - capacity is never exceeded (checked; a violation panics with ErrOverflow)
package queue
