package stream

import (
	"bufio"
	"bytes"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type note struct {
	Type string `json:"type"`
	N    int    `json:"n"`
}

func (n note) Kind() string { return n.Type }

// brokenPipe accepts a fixed number of writes and then fails.
type brokenPipe struct {
	bytes.Buffer
	writes int
	limit  int
	closed bool
}

func (b *brokenPipe) Write(p []byte) (int, error) {
	if b.writes >= b.limit {
		return 0, errors.New("broken pipe")
	}
	b.writes++
	return b.Buffer.Write(p)
}

func (b *brokenPipe) Close() error {
	b.closed = true
	return nil
}

func TestWriter(t *testing.T) {
	Convey("Given an SSE writer", t, func() {
		var buf bytes.Buffer
		s := NewWriter(&buf, SSE)

		Convey("Events are framed as data lines", func() {
			So(s.Emit(note{Type: "start", N: 1}), ShouldBeTrue)
			So(buf.String(), ShouldEqual, "data: {\"type\":\"start\",\"n\":1}\n\n")
		})

		Convey("Pings are comments", func() {
			So(s.Ping(), ShouldBeTrue)
			So(buf.String(), ShouldEqual, ": ping\n\n")
		})

		Convey("Finish writes the event and closes", func() {
			So(s.Finish(note{Type: "complete"}), ShouldBeTrue)
			So(s.State(), ShouldEqual, Closed)
			So(s.Emit(note{Type: "late"}), ShouldBeFalse)
			So(s.Finish(note{Type: "late"}), ShouldBeFalse)
			So(s.Ping(), ShouldBeFalse)
			So(buf.String(), ShouldNotContainSubstring, "late")
		})

		Convey("Close is absorbing", func() {
			s.Close()
			s.Close()
			So(s.State(), ShouldEqual, Closed)
			So(s.Emit(note{Type: "x"}), ShouldBeFalse)
			So(buf.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given an NDJSON writer over a buffered writer", t, func() {
		var buf bytes.Buffer
		bw := bufio.NewWriter(&buf)
		s := NewWriter(bw, NDJSON)

		Convey("Each event is flushed as one line", func() {
			So(s.Emit(note{Type: "a", N: 1}), ShouldBeTrue)
			So(s.Emit(note{Type: "b", N: 2}), ShouldBeTrue)
			So(buf.String(), ShouldEqual, "{\"type\":\"a\",\"n\":1}\n{\"type\":\"b\",\"n\":2}\n")
		})

		Convey("Content types differ per framer", func() {
			So(NDJSON.ContentType(), ShouldEqual, "application/x-ndjson")
			So(SSE.ContentType(), ShouldEqual, "text/event-stream")
		})
	})

	Convey("Given a consumer that goes away", t, func() {
		pipe := &brokenPipe{limit: 3}
		s := NewWriter(pipe, SSE)

		Convey("The failed emit reports false and closes the sink", func() {
			So(s.Emit(note{Type: "one"}), ShouldBeTrue)
			So(s.Emit(note{Type: "two"}), ShouldBeFalse)
			So(s.State(), ShouldEqual, Closed)
			So(pipe.closed, ShouldBeTrue)

			written := pipe.String()
			So(s.Emit(note{Type: "three"}), ShouldBeFalse)
			So(pipe.String(), ShouldEqual, written)
		})

		Convey("A failed ping closes the sink too", func() {
			pipe.limit = 0
			So(s.Ping(), ShouldBeFalse)
			So(s.State(), ShouldEqual, Closed)
		})

		Convey("A failed finish still ends closed", func() {
			pipe.limit = 0
			So(s.Finish(note{Type: "complete"}), ShouldBeFalse)
			So(s.State(), ShouldEqual, Closed)
		})
	})

	Convey("Concurrent emitters never interleave frames", t, func() {
		var buf bytes.Buffer
		s := NewWriter(&buf, NDJSON)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				s.Emit(note{Type: "n", N: n})
				s.Ping()
			}(i)
		}
		wg.Wait()

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		events := 0
		for _, line := range lines {
			if len(line) > 0 {
				So(line[0], ShouldEqual, '{')
				events++
			}
		}
		So(events, ShouldEqual, 50)
	})
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder", t, func() {
		r := &Recorder{}

		Convey("It keeps events in order until finished", func() {
			So(r.Emit(note{Type: "a"}), ShouldBeTrue)
			So(r.Ping(), ShouldBeTrue)
			So(r.Finish(note{Type: "b"}), ShouldBeTrue)
			So(r.Emit(note{Type: "c"}), ShouldBeFalse)

			events := r.Events()
			So(len(events), ShouldEqual, 2)
			So(events[0].Kind(), ShouldEqual, "a")
			So(events[1].Kind(), ShouldEqual, "b")
			So(r.State(), ShouldEqual, Closed)
		})

		Convey("FailAfter simulates a disconnect", func() {
			r.FailAfter = 1
			So(r.Emit(note{Type: "a"}), ShouldBeTrue)
			So(r.Emit(note{Type: "b"}), ShouldBeFalse)
			So(r.Ping(), ShouldBeFalse)
			So(len(r.Events()), ShouldEqual, 1)
		})
	})

	Convey("State names", t, func() {
		So(Open.String(), ShouldEqual, "open")
		So(Closing.String(), ShouldEqual, "closing")
		So(Closed.String(), ShouldEqual, "closed")
	})
}
