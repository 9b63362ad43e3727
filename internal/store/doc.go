// Package store provides SQLite-backed history for sort runs.
//
// Each run records its configuration, message counters, duration and
// outcome. When tracing is enabled the run's trace events are stored
// alongside it, keyed by (run_id, seq).
//
// # Ordering
//
// Trace events are always read back ORDER BY seq ASC. Run history is
// ordered by started_at, which is wall time and used for display only.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: trace_events cascade with their run
package store
