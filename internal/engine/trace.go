package engine

import (
	"slices"
	"sync"
)

// Trace event names.
const (
	EventSeed     = "seed"     // coordinator queued the root range
	EventWork     = "work"     // worker started on a range
	EventHandOff  = "hand_off" // worker queued a sub-range as Work
	EventInline   = "inline"   // queue was full; worker sorted a sub-range itself
	EventFinish   = "finish"   // worker reported a range complete
	EventComplete = "complete" // coordinator observed the root Finish
	EventShutdown = "shutdown" // shutdown broadcast (coordinator) or forward (worker)
	EventExit     = "exit"     // worker left its loop
)

// CoordinatorID is the Worker value of events recorded by the coordinator.
const CoordinatorID = -1

// TraceEvent is one step of a sort run.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Worker int    `json:"worker"`
	Event  string `json:"event"`
	First  int    `json:"first"`
	Last   int    `json:"last"`
}

// Recorder receives trace events from the coordinator and workers.
// Record is called concurrently.
type Recorder interface {
	Record(TraceEvent)
}

// MemoryRecorder keeps trace events in memory.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []TraceEvent
}

// NewMemoryRecorder creates an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record implements Recorder.
func (m *MemoryRecorder) Record(ev TraceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a copy of the recorded events ordered by Seq.
func (m *MemoryRecorder) Events() []TraceEvent {
	m.mu.Lock()
	out := slices.Clone(m.events)
	m.mu.Unlock()

	slices.SortFunc(out, func(a, b TraceEvent) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
	return out
}
