package stream

import (
	"io"
)

// Framer encodes events onto the wire.
type Framer interface {
	Frame(w io.Writer, payload []byte) error
	Ping(w io.Writer) error
	ContentType() string
}

// SSE frames events as server-sent events.
var SSE Framer = sse{}

// NDJSON frames events as newline-delimited JSON.
var NDJSON Framer = ndjson{}

type sse struct{}

func (sse) Frame(w io.Writer, payload []byte) error {
	if _, err := io.WriteString(w, "data: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n\n")
	return err
}

func (sse) Ping(w io.Writer) error {
	_, err := io.WriteString(w, ": ping\n\n")
	return err
}

func (sse) ContentType() string {
	return "text/event-stream"
}

type ndjson struct{}

func (ndjson) Frame(w io.Writer, payload []byte) error {
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Ping writes an empty line, which NDJSON readers skip.
func (ndjson) Ping(w io.Writer) error {
	_, err := io.WriteString(w, "\n")
	return err
}

func (ndjson) ContentType() string {
	return "application/x-ndjson"
}
