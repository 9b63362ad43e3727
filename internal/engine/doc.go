// Package engine implements the parallel quicksort work-distribution engine.
//
// ARCHITECTURE:
//
// Shared Task Queue:
// A fixed pool of worker goroutines and one coordinator communicate through a
// bounded blocking queue of Messages (Work, Finish, Shutdown). Which worker
// dequeues a given message is unspecified; that is what balances the load.
//
// Message Flow:
// 1. Coordinator queues Work for the whole array
// 2. A worker partitions the range; sides at or below the cutoff are sorted
// inline, longer sides are queued as new Work
// 3. When every queued side of a range has reported Finish, the range itself
// reports Finish (completion tracker, one mutex)
// 4. The root Finish goes to the coordinator's completion queue
// 5. Coordinator queues Shutdown; each worker forwards it once and exits
// 6. Coordinator joins the pool, then runs the verification scan
//
// Liveness:
// Workers never block while producing. Hand-offs and Finish notifications use
// TryEnqueue; when the queue is full the worker does the work itself (sorts
// the side locally, or handles the Finish directly). The only blocking
// enqueues are the seed, the Shutdown forward, and the root Finish, none of
// which can find their queue full.
//
// The shared array is written without locks. Ranges being written at the same
// time are always disjoint because the partition step is the only source of
// new ranges.
package engine
