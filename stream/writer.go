package stream

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/tansaku/tansaku/log"
)

// Writer is a Sink backed by an io.Writer.
// Writers that buffer (bufio.Writer, http.ResponseWriter) are flushed after every frame.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	framer Framer
	state  State
}

// NewWriter returns an open sink writing to w with the given framing.
func NewWriter(w io.Writer, framer Framer) *Writer {
	return &Writer{w: w, framer: framer}
}

func (s *Writer) Emit(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Open {
		return false
	}

	if err := s.write(event); err != nil {
		log.Debugf("stream: emit %s: %s", event.Kind(), err)
		s.closeLocked()
		return false
	}

	return true
}

func (s *Writer) Finish(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Open {
		return false
	}

	s.state = Closing
	err := s.write(event)
	s.closeLocked()

	if err != nil {
		log.Debugf("stream: finish %s: %s", event.Kind(), err)
		return false
	}

	return true
}

func (s *Writer) Ping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Open {
		return false
	}

	if err := s.framer.Ping(s.w); err != nil {
		s.closeLocked()
		return false
	}

	if err := flush(s.w); err != nil {
		s.closeLocked()
		return false
	}

	return true
}

func (s *Writer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
}

func (s *Writer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Writer) write(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err = s.framer.Frame(s.w, payload); err != nil {
		return err
	}

	return flush(s.w)
}

func (s *Writer) closeLocked() {
	if s.state == Closed {
		return
	}

	s.state = Closed
	if c, ok := s.w.(io.Closer); ok {
		_ = c.Close()
	}
}

func flush(w io.Writer) error {
	switch f := w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Flush() }:
		f.Flush()
	}
	return nil
}
