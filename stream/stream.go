// Package stream writes search events to a consumer and notices when that consumer is gone.
package stream

import "fmt"

// Event is one self-contained record of a search stream.
type Event interface {
	// Kind returns the event type tag, e.g. "start" or "complete".
	Kind() string
}

// State of a sink.
type State int

const (
	Open State = iota
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Sink accepts events for a single search session.
// Every method is safe for concurrent use. Once Closed, a sink stays Closed
// and every write reports false.
type Sink interface {
	// Emit writes an event. It returns false if the sink is closed or the write failed.
	Emit(event Event) bool

	// Finish writes the terminal event and closes the sink.
	Finish(event Event) bool

	// Ping writes a keep-alive. A failed ping closes the sink.
	Ping() bool

	// Close marks the sink as closed without writing anything.
	Close()

	State() State
}
