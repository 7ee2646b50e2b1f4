package mal

import (
	"context"
	"errors"
	"net/http"

	"github.com/tansaku/tansaku/network"
	"github.com/tansaku/tansaku/source"
)

// DefaultURL is the public API root.
const DefaultURL = "https://api.myanimelist.net/v2"

// Source searches MyAnimeList with a client id.
type Source struct {
	id, name string
	endpoint string
	clientID string
}

// New returns a source for the API at endpoint, DefaultURL when empty.
func New(id, name, endpoint, clientID string) *Source {
	if endpoint == "" {
		endpoint = DefaultURL
	}

	return &Source{id: id, name: name, endpoint: endpoint, clientID: clientID}
}

func (s *Source) ID() string {
	return s.id
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) get(ctx context.Context, url string, v any) error {
	if s.clientID == "" {
		return source.Providerf(s.id, "client id is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-MAL-CLIENT-ID", s.clientID)

	err = network.JSON(req, v)

	var status *network.StatusError
	if errors.As(err, &status) && (status.Code == http.StatusUnauthorized || status.Code == http.StatusForbidden) {
		return source.Providerf(s.id, "unauthorized, check the client id")
	}

	return source.Transport(s.id, err)
}
