package search

import (
	"time"

	"github.com/tansaku/tansaku/source"
)

// Event type tags.
const (
	TypeStart        = "start"
	TypeSourceResult = "source_result"
	TypeSourceError  = "source_error"
	TypeComplete     = "complete"
)

var now = time.Now

func timestamp() int64 {
	return now().UnixMilli()
}

// Start opens a stream.
type Start struct {
	Type         string `json:"type" jsonschema:"enum=start"`
	Query        string `json:"query"`
	TotalSources int    `json:"totalSources"`
	Timestamp    int64  `json:"timestamp"`
}

func (Start) Kind() string { return TypeStart }

// SourceResult carries the filtered items of one provider.
type SourceResult struct {
	Type       string         `json:"type" jsonschema:"enum=source_result"`
	Source     string         `json:"source"`
	SourceName string         `json:"sourceName"`
	Results    []*source.Item `json:"results"`
	Timestamp  int64          `json:"timestamp"`
}

func (SourceResult) Kind() string { return TypeSourceResult }

// SourceError reports a provider that failed or timed out.
type SourceError struct {
	Type       string `json:"type" jsonschema:"enum=source_error"`
	Source     string `json:"source"`
	SourceName string `json:"sourceName"`
	Error      string `json:"error"`
	Timestamp  int64  `json:"timestamp"`
}

func (SourceError) Kind() string { return TypeSourceError }

// Complete is the terminal event.
type Complete struct {
	Type             string `json:"type" jsonschema:"enum=complete"`
	TotalResults     int    `json:"totalResults"`
	CompletedSources int    `json:"completedSources"`
	Timestamp        int64  `json:"timestamp"`
}

func (Complete) Kind() string { return TypeComplete }

func newStart(query string, total int) Start {
	return Start{Type: TypeStart, Query: query, TotalSources: total, Timestamp: timestamp()}
}

func newComplete(results, completed int) Complete {
	return Complete{Type: TypeComplete, TotalResults: results, CompletedSources: completed, Timestamp: timestamp()}
}
