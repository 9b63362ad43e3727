package engine

import "fmt"

// Kind distinguishes message variants.
type Kind int

const (
	// KindWork asks a worker to sort a range.
	KindWork Kind = iota + 1
	// KindFinish reports that a range is fully sorted.
	KindFinish
	// KindShutdown tells a worker to forward the message once and exit.
	KindShutdown
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindWork:
		return "work"
	case KindFinish:
		return "finish"
	case KindShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Range is the half-open index interval [First, Last) of the shared array.
type Range struct {
	First int
	Last  int
}

// Len returns the number of elements in the range.
func (r Range) Len() int {
	return r.Last - r.First
}

// String formats the range as [first,last).
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.First, r.Last)
}

// Message is the unit exchanged through the task and completion queues.
// Range is meaningful for Work and Finish and is zero for Shutdown.
type Message struct {
	Kind  Kind
	Range Range
}

// Work builds a Work message for r.
func Work(r Range) Message {
	return Message{Kind: KindWork, Range: r}
}

// Finish builds a Finish message for r.
func Finish(r Range) Message {
	return Message{Kind: KindFinish, Range: r}
}

// Shutdown builds the shutdown message.
func Shutdown() Message {
	return Message{Kind: KindShutdown}
}

// String formats the message for logs.
func (m Message) String() string {
	if m.Kind == KindShutdown {
		return m.Kind.String()
	}
	return m.Kind.String() + m.Range.String()
}
