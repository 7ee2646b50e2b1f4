package server

import (
	"bufio"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/search"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/stream"
)

// HeaderSessionID carries the id of the streamed session.
const HeaderSessionID = "X-Session-Id"

func routes(s *Server) {
	s.app.Use(requestLog)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api", authenticate(s.config), limit(s.config.RateLimit))
	api.Get("/sources", s.sources)
	api.Get("/search/stream", s.searchStream)
	api.Get("/search", s.searchAggregate)
}

type sourceView struct {
	Key  string        `json:"key"`
	Name string        `json:"name"`
	Kind provider.Kind `json:"kind"`
}

func (s *Server) sources(c *fiber.Ctx) error {
	descriptors, err := s.catalogue.Visible(c.UserContext(), identity(c))
	if err != nil {
		return err
	}

	return c.JSON(lo.Map(descriptors, func(d *provider.Descriptor, _ int) sourceView {
		return sourceView{Key: d.Key, Name: d.Name, Kind: d.Kind}
	}))
}

// searchStream answers with an SSE stream of session events.
// The session runs inside the body writer, after the handler has returned.
func (s *Server) searchStream(c *fiber.Ctx) error {
	session, err := s.dispatcher.NewSession(c.UserContext(), c.Query("q"), identity(c))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, stream.SSE.ContentType())
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
	c.Set(HeaderSessionID, session.ID)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		sink := stream.NewWriter(w, stream.SSE)
		defer sink.Close()

		stop := heartbeat(sink, s.config.Heartbeat)
		defer stop()

		summary := session.Run(s.ctx, sink)
		log.WithFields(log.Fields{
			"session":      session.ID,
			"completed":    summary.Completed,
			"total":        summary.Total,
			"results":      summary.TotalResults,
			"disconnected": summary.Disconnected,
		}).Info("search stream finished")
	})

	return nil
}

// heartbeat pings sink every interval until stop is called or the sink closes.
func heartbeat(sink stream.Sink, interval time.Duration) (stop func()) {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !sink.Ping() {
					return
				}
			}
		}
	}()

	return func() { close(done) }
}

type sourceResults struct {
	Source     string         `json:"source"`
	SourceName string         `json:"sourceName"`
	Results    []*source.Item `json:"results"`
}

type sourceFailure struct {
	Source     string `json:"source"`
	SourceName string `json:"sourceName"`
	Error      string `json:"error"`
}

// Aggregate is the body of the non-streaming search endpoint.
type Aggregate struct {
	Query            string          `json:"query"`
	Results          []sourceResults `json:"results"`
	Errors           []sourceFailure `json:"errors"`
	TotalResults     int             `json:"totalResults"`
	CompletedSources int             `json:"completedSources"`
}

// aggregate folds a recorded event sequence into one response, in arrival order.
func aggregate(query string, events []stream.Event) Aggregate {
	out := Aggregate{
		Query:   query,
		Results: []sourceResults{},
		Errors:  []sourceFailure{},
	}

	for _, event := range events {
		switch e := event.(type) {
		case search.SourceResult:
			out.Results = append(out.Results, sourceResults{Source: e.Source, SourceName: e.SourceName, Results: e.Results})
		case search.SourceError:
			out.Errors = append(out.Errors, sourceFailure{Source: e.Source, SourceName: e.SourceName, Error: e.Error})
		case search.Complete:
			out.TotalResults = e.TotalResults
			out.CompletedSources = e.CompletedSources
		}
	}

	return out
}

func (s *Server) searchAggregate(c *fiber.Ctx) error {
	session, err := s.dispatcher.NewSession(c.UserContext(), c.Query("q"), identity(c))
	if err != nil {
		return err
	}

	recorder := &stream.Recorder{}
	session.Run(s.ctx, recorder)

	c.Set(HeaderSessionID, session.ID)
	return c.JSON(aggregate(session.Query, recorder.Events()))
}
