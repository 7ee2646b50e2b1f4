package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tansaku/tansaku/source"
)

type result struct {
	items []*source.Item
	err   error
}

// Guard runs src.Search with a deadline and turns whatever happens into an Outcome.
// The first of the adapter's answer and the deadline wins; the other is discarded.
// The adapter's context is cancelled when Guard returns, so adapters that honour it stop early.
func Guard(ctx context.Context, src source.Source, query string, timeout time.Duration) Outcome {
	started := time.Now()
	outcome := Outcome{Key: src.ID(), Name: src.Name()}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: source.Providerf(src.ID(), "panic: %v", r)}
			}
		}()

		items, err := src.Search(ctx, query)
		done <- result{items: items, err: err}
	}()

	select {
	case r := <-done:
		outcome.Items = r.items
		outcome.Err = classify(ctx, src.ID(), r.err, timeout)
	case <-ctx.Done():
		outcome.Err = classify(ctx, src.ID(), ctx.Err(), timeout)
	}

	if outcome.Err != nil {
		outcome.Items = nil
	}

	outcome.Elapsed = time.Since(started)
	return outcome
}

func classify(ctx context.Context, id string, err error, timeout time.Duration) error {
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{After: timeout}
	}

	var (
		transport *source.TransportError
		provider  *source.ProviderError
	)
	if errors.As(err, &transport) || errors.As(err, &provider) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return source.Transport(id, fmt.Errorf("search cancelled: %w", err))
	}

	return &source.ProviderError{Source: id, Message: err.Error()}
}
