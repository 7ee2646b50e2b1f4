package stream

import "sync"

// Recorder is an in-memory Sink that keeps every event it accepts.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	state  State

	// FailAfter, when positive, makes the recorder behave like a consumer that
	// disconnects once it has accepted that many events.
	FailAfter int
}

func (r *Recorder) Emit(event Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.accept(event)
}

func (r *Recorder) Finish(event Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Open {
		return false
	}

	r.state = Closing
	ok := r.accept(event)
	r.state = Closed
	return ok
}

func (r *Recorder) Ping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state == Open
}

func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = Closed
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Events returns a copy of the accepted events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) accept(event Event) bool {
	if r.state == Closed {
		return false
	}

	if r.FailAfter > 0 && len(r.events) >= r.FailAfter {
		r.state = Closed
		return false
	}

	r.events = append(r.events, event)
	return true
}
