package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/filter"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/stream"
)

type fake struct {
	id    string
	delay time.Duration
	items []*source.Item
	err   error
	panic bool
	// block ignores the context and sleeps for delay regardless.
	block bool

	aborted atomic.Bool
}

func (f *fake) ID() string   { return f.id }
func (f *fake) Name() string { return "Fake " + f.id }

func (f *fake) Search(ctx context.Context, _ string) ([]*source.Item, error) {
	if f.panic {
		panic("adapter exploded")
	}

	if f.block {
		time.Sleep(f.delay)
	} else {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.aborted.Store(true)
			return nil, ctx.Err()
		}
	}

	return f.items, f.err
}

func makeItems(n int, category string) []*source.Item {
	out := make([]*source.Item, n)
	for i := range out {
		out[i] = &source.Item{Title: fmt.Sprintf("item %d", i), Category: category}
	}
	return out
}

func dispatcher(timeout time.Duration, policy filter.Policy, fakes ...*fake) *Dispatcher {
	byKey := make(map[string]*fake)
	var catalogue provider.Static
	for _, f := range fakes {
		byKey[f.id] = f
		catalogue = append(catalogue, &provider.Descriptor{Key: f.id, Name: f.Name(), Kind: provider.KindCatalogue})
	}

	opener := func(_ context.Context, d *provider.Descriptor) (source.Source, error) {
		f, ok := byKey[d.Key]
		if !ok {
			return nil, errors.New("unknown provider")
		}
		return f, nil
	}

	return NewDispatcher(catalogue, WithOpener(opener), WithTimeout(timeout), WithPolicy(policy))
}

func run(d *Dispatcher, query string, sink stream.Sink) (Summary, error) {
	session, err := d.NewSession(context.Background(), query, auth.Anonymous)
	if err != nil {
		return Summary{}, err
	}
	return session.Run(context.Background(), sink), nil
}

func kinds(events []stream.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Kind()
	}
	return out
}

func TestGuard(t *testing.T) {
	Convey("Given the timeout guard", t, func() {
		Convey("A fast adapter wins", func() {
			o := Guard(context.Background(), &fake{id: "a", items: makeItems(2, "")}, "q", time.Second)
			So(o.OK(), ShouldBeTrue)
			So(len(o.Items), ShouldEqual, 2)
			So(o.Key, ShouldEqual, "a")
		})

		Convey("A slow adapter times out and is cancelled", func() {
			slow := &fake{id: "slow", delay: time.Second}
			started := time.Now()
			o := Guard(context.Background(), slow, "q", 30*time.Millisecond)

			So(errors.Is(o.Err, ErrTimeout), ShouldBeTrue)
			So(o.Err.Error(), ShouldEqual, "timeout after 30ms")
			So(time.Since(started), ShouldBeLessThan, 500*time.Millisecond)
			So(o.Items, ShouldBeNil)

			time.Sleep(20 * time.Millisecond)
			So(slow.aborted.Load(), ShouldBeTrue)
		})

		Convey("An adapter ignoring cancellation is abandoned", func() {
			started := time.Now()
			o := Guard(context.Background(), &fake{id: "stuck", delay: 300 * time.Millisecond, block: true}, "q", 20*time.Millisecond)
			So(errors.Is(o.Err, ErrTimeout), ShouldBeTrue)
			So(time.Since(started), ShouldBeLessThan, 200*time.Millisecond)
		})

		Convey("A panic becomes a provider error", func() {
			o := Guard(context.Background(), &fake{id: "p", panic: true}, "q", time.Second)
			var pe *source.ProviderError
			So(errors.As(o.Err, &pe), ShouldBeTrue)
			So(pe.Message, ShouldContainSubstring, "adapter exploded")
		})

		Convey("Typed adapter errors pass through", func() {
			err := source.Transport("t", errors.New("connection refused"))
			o := Guard(context.Background(), &fake{id: "t", err: err}, "q", time.Second)
			So(o.Err, ShouldEqual, err)
		})

		Convey("Plain adapter errors become provider errors", func() {
			o := Guard(context.Background(), &fake{id: "e", err: errors.New("quota exceeded")}, "q", time.Second)
			var pe *source.ProviderError
			So(errors.As(o.Err, &pe), ShouldBeTrue)
			So(pe.Message, ShouldEqual, "quota exceeded")
		})
	})
}

func TestDispatcher(t *testing.T) {
	off := filter.Policy{Enabled: false}

	Convey("Scenario A: results add up", t, func() {
		d := dispatcher(time.Second, off,
			&fake{id: "a", items: makeItems(2, "x")},
			&fake{id: "b", items: nil},
			&fake{id: "c", items: makeItems(5, "y")},
		)

		rec := &stream.Recorder{}
		summary, err := run(d, "naruto", rec)
		So(err, ShouldBeNil)

		events := rec.Events()
		So(len(events), ShouldEqual, 5)

		start := events[0].(Start)
		So(start.TotalSources, ShouldEqual, 3)
		So(start.Query, ShouldEqual, "naruto")

		complete := events[4].(Complete)
		So(complete.TotalResults, ShouldEqual, 7)
		So(complete.CompletedSources, ShouldEqual, start.TotalSources)
		So(summary.Disconnected, ShouldBeFalse)
		So(rec.State(), ShouldEqual, stream.Closed)

		seen := map[string]int{}
		for _, e := range events[1:4] {
			r, ok := e.(SourceResult)
			So(ok, ShouldBeTrue)
			So(r.Results, ShouldNotBeNil)
			seen[r.Source]++
		}
		So(seen, ShouldResemble, map[string]int{"a": 1, "b": 1, "c": 1})
	})

	Convey("Scenario B: a slow provider does not hold back a fast one", t, func() {
		deadline := 150 * time.Millisecond
		d := dispatcher(deadline, off,
			&fake{id: "slow", delay: 5 * time.Second},
			&fake{id: "fast", delay: 10 * time.Millisecond, items: makeItems(1, "")},
		)

		rec := &stream.Recorder{}
		started := time.Now()
		_, err := run(d, "q", rec)
		elapsed := time.Since(started)
		So(err, ShouldBeNil)

		So(kinds(rec.Events()), ShouldResemble, []string{TypeStart, TypeSourceResult, TypeSourceError, TypeComplete})
		So(rec.Events()[1].(SourceResult).Source, ShouldEqual, "fast")

		failure := rec.Events()[2].(SourceError)
		So(failure.Source, ShouldEqual, "slow")
		So(failure.Error, ShouldStartWith, "timeout after")

		So(elapsed, ShouldBeGreaterThanOrEqualTo, deadline)
		So(elapsed, ShouldBeLessThan, 2*deadline)
	})

	Convey("Scenario C: no providers", t, func() {
		d := dispatcher(time.Second, off)
		rec := &stream.Recorder{}
		_, err := run(d, "q", rec)
		So(err, ShouldBeNil)

		events := rec.Events()
		So(kinds(events), ShouldResemble, []string{TypeStart, TypeComplete})
		So(events[0].(Start).TotalSources, ShouldEqual, 0)
		So(events[1].(Complete).TotalResults, ShouldEqual, 0)
		So(events[1].(Complete).CompletedSources, ShouldEqual, 0)
	})

	Convey("Scenario D: blank queries are rejected before anything is emitted", t, func() {
		for _, q := range []string{"", "   ", "\t\n"} {
			rec := &stream.Recorder{}
			_, err := run(dispatcher(time.Second, off, &fake{id: "a"}), q, rec)

			var ve *ValidationError
			So(errors.As(err, &ve), ShouldBeTrue)
			So(len(rec.Events()), ShouldEqual, 0)
		}
	})

	Convey("Failures are isolated and counted", t, func() {
		d := dispatcher(time.Second, off,
			&fake{id: "ok", items: makeItems(3, "")},
			&fake{id: "broken", err: errors.New("500")},
			&fake{id: "panics", panic: true},
		)

		rec := &stream.Recorder{}
		summary, err := run(d, "q", rec)
		So(err, ShouldBeNil)
		So(summary.Completed, ShouldEqual, 3)
		So(summary.TotalResults, ShouldEqual, 3)

		errorsSeen := 0
		for _, e := range rec.Events() {
			if e.Kind() == TypeSourceError {
				errorsSeen++
			}
		}
		So(errorsSeen, ShouldEqual, 2)
		So(rec.Events()[len(rec.Events())-1].Kind(), ShouldEqual, TypeComplete)
	})

	Convey("Failing to open a provider is reported like any other failure", t, func() {
		catalogue := provider.Static{{Key: "ghost", Name: "Ghost"}}
		d := NewDispatcher(catalogue,
			WithOpener(func(context.Context, *provider.Descriptor) (source.Source, error) { return nil, errors.New("no such adapter") }),
			WithTimeout(time.Second), WithPolicy(off))

		rec := &stream.Recorder{}
		_, err := run(d, "q", rec)
		So(err, ShouldBeNil)
		So(kinds(rec.Events()), ShouldResemble, []string{TypeStart, TypeSourceError, TypeComplete})
		So(rec.Events()[1].(SourceError).SourceName, ShouldEqual, "Ghost")
	})

	Convey("The deadline covers opening a provider", t, func() {
		catalogue := provider.Static{{Key: "stuck", Name: "Stuck"}, {Key: "quick", Name: "Quick"}}
		quick := &fake{id: "quick", items: makeItems(1, "")}
		d := NewDispatcher(catalogue,
			WithOpener(func(_ context.Context, d *provider.Descriptor) (source.Source, error) {
				if d.Key == "stuck" {
					time.Sleep(2 * time.Second)
				}
				return quick, nil
			}),
			WithTimeout(100*time.Millisecond), WithPolicy(off))

		rec := &stream.Recorder{}
		started := time.Now()
		_, err := run(d, "q", rec)
		So(err, ShouldBeNil)
		So(time.Since(started), ShouldBeLessThan, time.Second)

		events := rec.Events()
		So(kinds(events), ShouldResemble, []string{TypeStart, TypeSourceResult, TypeSourceError, TypeComplete})
		So(events[2].(SourceError).Source, ShouldEqual, "stuck")
		So(events[2].(SourceError).Error, ShouldEqual, "timeout after 100ms")
	})

	Convey("A panicking opener is reported as that provider's failure", t, func() {
		catalogue := provider.Static{{Key: "bad", Name: "Bad"}}
		d := NewDispatcher(catalogue,
			WithOpener(func(context.Context, *provider.Descriptor) (source.Source, error) { panic("no adapter") }),
			WithTimeout(time.Second), WithPolicy(off))

		rec := &stream.Recorder{}
		_, err := run(d, "q", rec)
		So(err, ShouldBeNil)
		So(kinds(rec.Events()), ShouldResemble, []string{TypeStart, TypeSourceError, TypeComplete})
		So(rec.Events()[1].(SourceError).Error, ShouldContainSubstring, "panic")
	})

	Convey("The content filter applies before counting", t, func() {
		policy := filter.Policy{Enabled: true, Denylist: []string{"adult"}}
		d := dispatcher(time.Second, policy,
			&fake{id: "a", items: append(makeItems(2, "Drama"), makeItems(3, "Adult")...)},
		)

		rec := &stream.Recorder{}
		_, err := run(d, "q", rec)
		So(err, ShouldBeNil)

		events := rec.Events()
		So(len(events[1].(SourceResult).Results), ShouldEqual, 2)
		So(events[2].(Complete).TotalResults, ShouldEqual, 2)
	})

	Convey("Duplicate provider keys are queried once", t, func() {
		f := &fake{id: "dup", items: makeItems(1, "")}
		catalogue := provider.Static{{Key: "dup", Name: "First"}, {Key: "dup", Name: "Second"}}
		d := NewDispatcher(catalogue,
			WithOpener(func(context.Context, *provider.Descriptor) (source.Source, error) { return f, nil }),
			WithTimeout(time.Second), WithPolicy(off))

		session, err := d.NewSession(context.Background(), "q", auth.Anonymous)
		So(err, ShouldBeNil)
		So(session.Total, ShouldEqual, 1)
		So(session.Providers[0].Name, ShouldEqual, "First")
	})

	Convey("Disconnecting after k providers stops emission", t, func() {
		fakes := make([]*fake, 5)
		for i := range fakes {
			fakes[i] = &fake{id: fmt.Sprintf("p%d", i), delay: time.Duration(i*10) * time.Millisecond}
		}
		d := dispatcher(time.Second, off, fakes...)

		for k := 0; k <= 5; k++ {
			// start plus k provider events are accepted, then the consumer vanishes
			rec := &stream.Recorder{FailAfter: 1 + k}
			summary, err := run(d, "q", rec)
			So(err, ShouldBeNil)

			events := rec.Events()
			So(len(events), ShouldEqual, 1+k)
			So(summary.Disconnected, ShouldBeTrue)
			for _, e := range events {
				So(e.Kind(), ShouldNotEqual, TypeComplete)
			}
			So(rec.State(), ShouldEqual, stream.Closed)
		}
	})

	Convey("Cancelling the run closes the sink without reporting failures", t, func() {
		d := dispatcher(5*time.Second, off,
			&fake{id: "fast", items: makeItems(1, "")},
			&fake{id: "slow", delay: 3 * time.Second},
		)
		session, err := d.NewSession(context.Background(), "q", auth.Anonymous)
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(100*time.Millisecond, cancel)

		rec := &stream.Recorder{}
		started := time.Now()
		summary := session.Run(ctx, rec)

		So(time.Since(started), ShouldBeLessThan, time.Second)
		So(summary.Disconnected, ShouldBeTrue)
		So(summary.Completed, ShouldEqual, 1)
		So(kinds(rec.Events()), ShouldResemble, []string{TypeStart, TypeSourceResult})
		So(rec.State(), ShouldEqual, stream.Closed)
	})

	Convey("A consumer gone before start sees nothing", t, func() {
		rec := &stream.Recorder{}
		rec.Close()
		summary, err := run(dispatcher(time.Second, off, &fake{id: "a"}), "q", rec)
		So(err, ShouldBeNil)
		So(summary.Disconnected, ShouldBeTrue)
		So(summary.Completed, ShouldEqual, 0)
	})

	Convey("Many providers yield exactly one event each and one terminal event", t, func() {
		var fakes []*fake
		for i := 0; i < 40; i++ {
			f := &fake{id: fmt.Sprintf("p%02d", i), delay: time.Duration(i%7) * time.Millisecond, items: makeItems(i%3, "")}
			if i%5 == 0 {
				f.err = errors.New("flaky")
			}
			fakes = append(fakes, f)
		}
		d := dispatcher(time.Second, off, fakes...)

		rec := &stream.Recorder{}
		_, err := run(d, "q", rec)
		So(err, ShouldBeNil)

		events := rec.Events()
		So(len(events), ShouldEqual, 42)
		So(events[0].Kind(), ShouldEqual, TypeStart)

		perKey := map[string]int{}
		completes := 0
		for _, e := range events {
			switch ev := e.(type) {
			case SourceResult:
				perKey[ev.Source]++
			case SourceError:
				perKey[ev.Source]++
			case Complete:
				completes++
				So(ev.CompletedSources, ShouldEqual, 40)
			}
		}
		So(len(perKey), ShouldEqual, 40)
		for _, n := range perKey {
			So(n, ShouldEqual, 1)
		}
		So(completes, ShouldEqual, 1)
		So(events[41].Kind(), ShouldEqual, TypeComplete)
	})
}

func TestEvents(t *testing.T) {
	Convey("Outcome events carry the type tag", t, func() {
		now = func() time.Time { return time.UnixMilli(1700000000000) }
		defer func() { now = time.Now }()

		ok := Outcome{Key: "a", Name: "A"}.Event(nil).(SourceResult)
		So(ok.Type, ShouldEqual, TypeSourceResult)
		So(ok.Results, ShouldNotBeNil)
		So(ok.Timestamp, ShouldEqual, 1700000000000)

		failed := Outcome{Key: "a", Name: "A", Err: &TimeoutError{After: 20 * time.Second}}.Event(nil).(SourceError)
		So(failed.Type, ShouldEqual, TypeSourceError)
		So(failed.Error, ShouldEqual, "timeout after 20s")
	})
}
