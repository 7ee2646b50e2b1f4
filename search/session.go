package search

import (
	"context"
	"time"

	"github.com/tansaku/tansaku/filter"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/stream"
)

// Session is one query fanned out to a fixed set of providers.
// A session runs once.
type Session struct {
	ID        string
	Query     string
	Providers []*provider.Descriptor
	Total     int

	completed    int
	streamClosed bool
	accumulated  []*source.Item

	opener  Opener
	timeout time.Duration
	policy  filter.Policy
}

// Summary describes how a run ended.
type Summary struct {
	Total        int
	Completed    int
	TotalResults int
	// Disconnected is true when the consumer went away before the terminal event.
	Disconnected bool
}

// Run streams the session into sink and returns once the terminal event is written
// or the consumer is gone. Cancelling ctx counts as the consumer leaving: the sink is
// closed and no terminal event is written. Provider tasks still in flight after a
// disconnect finish on their own and their outcomes are dropped.
func (s *Session) Run(ctx context.Context, sink stream.Sink) Summary {
	logger := log.WithFields(log.Fields{"session": s.ID, "query": s.Query})

	if !sink.Emit(newStart(s.Query, s.Total)) {
		logger.Debug("consumer gone before start")
		return s.disconnect()
	}

	if s.Total == 0 {
		return s.finish(sink)
	}

	outcomes := make(chan Outcome, s.Total)
	for _, d := range s.Providers {
		go func(d *provider.Descriptor) {
			outcomes <- s.task(ctx, d)
		}(d)
	}

	for s.completed < s.Total {
		var outcome Outcome
		select {
		case outcome = <-outcomes:
		case <-ctx.Done():
		}

		// a cancelled run is a consumer that went away, not a round of provider failures
		if ctx.Err() != nil {
			logger.WithField("completed", s.completed).Debug("session cancelled")
			sink.Close()
			return s.disconnect()
		}

		s.completed++

		var items []*source.Item
		if outcome.OK() {
			items = filter.Apply(outcome.Items, s.policy)
			s.accumulated = append(s.accumulated, items...)
		}

		logger.WithFields(log.Fields{
			"provider": outcome.Key,
			"elapsed":  outcome.Elapsed,
			"items":    len(items),
			"error":    outcome.Err,
		}).Debug("provider finished")

		if !sink.Emit(outcome.Event(items)) {
			logger.WithField("completed", s.completed).Debug("consumer gone, dropping remaining outcomes")
			return s.disconnect()
		}
	}

	return s.finish(sink)
}

func (s *Session) task(ctx context.Context, d *provider.Descriptor) Outcome {
	outcome := Guard(ctx, &deferred{descriptor: d, opener: s.opener}, s.Query, s.timeout)
	outcome.Key, outcome.Name = d.Key, d.Name
	return outcome
}

// deferred opens its provider inside Search, so the deadline and panic recovery
// of Guard cover the open step too.
type deferred struct {
	descriptor *provider.Descriptor
	opener     Opener
}

func (p *deferred) ID() string   { return p.descriptor.Key }
func (p *deferred) Name() string { return p.descriptor.Name }

func (p *deferred) Search(ctx context.Context, query string) ([]*source.Item, error) {
	src, err := p.opener(ctx, p.descriptor)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, source.Providerf(p.descriptor.Key, "open: %s", err)
	}

	return src.Search(ctx, query)
}

func (s *Session) finish(sink stream.Sink) Summary {
	s.streamClosed = true
	if !sink.Finish(newComplete(len(s.accumulated), s.completed)) {
		log.WithFields(log.Fields{"session": s.ID}).Debug("consumer gone before complete")
		return s.summary(true)
	}

	return s.summary(false)
}

func (s *Session) disconnect() Summary {
	s.streamClosed = true
	return s.summary(true)
}

func (s *Session) summary(disconnected bool) Summary {
	return Summary{
		Total:        s.Total,
		Completed:    s.completed,
		TotalResults: len(s.accumulated),
		Disconnected: disconnected,
	}
}
