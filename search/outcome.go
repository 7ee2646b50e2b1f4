package search

import (
	"time"

	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/stream"
)

// Outcome is the single result of one provider task.
// Err is nil on success, otherwise a *TimeoutError, *source.TransportError or *source.ProviderError.
type Outcome struct {
	Key     string
	Name    string
	Items   []*source.Item
	Err     error
	Elapsed time.Duration
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Event renders the outcome, with items already filtered.
func (o Outcome) Event(items []*source.Item) stream.Event {
	if !o.OK() {
		return SourceError{
			Type:       TypeSourceError,
			Source:     o.Key,
			SourceName: o.Name,
			Error:      o.Err.Error(),
			Timestamp:  timestamp(),
		}
	}

	if items == nil {
		items = []*source.Item{}
	}

	return SourceResult{
		Type:       TypeSourceResult,
		Source:     o.Key,
		SourceName: o.Name,
		Results:    items,
		Timestamp:  timestamp(),
	}
}
