package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/network"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/util"
)

// DefaultURL is the public Anilist GraphQL endpoint.
const DefaultURL = "https://graphql.anilist.co"

type searchByNameResponse struct {
	Data struct {
		Page struct {
			Media []*Anime `json:"media"`
		} `json:"page"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Source searches one Anilist-compatible endpoint.
type Source struct {
	id, name, url string
}

// New returns a source for the endpoint at url, DefaultURL when empty.
func New(id, name, url string) *Source {
	if url == "" {
		url = DefaultURL
	}

	return &Source{id: id, name: name, url: url}
}

func (s *Source) ID() string {
	return s.id
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Search(ctx context.Context, query string) ([]*source.Item, error) {
	if _, failed := failCacher.Get(query).Get(); failed {
		return nil, source.Providerf(s.id, "recent search for %q failed, retry in a minute", query)
	}

	animes, err := s.searchByName(ctx, query)
	if err != nil {
		if ctx.Err() == nil {
			_ = failCacher.Set(query, true)
		}
		return nil, err
	}

	return lo.Map(animes, func(a *Anime, _ int) *source.Item { return toItem(a) }), nil
}

func (s *Source) searchByName(ctx context.Context, name string) ([]*Anime, error) {
	body, err := json.Marshal(map[string]any{
		"query": searchByNameQuery,
		"variables": map[string]any{
			"query": normalizedName(name),
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Infof("Searching anilist for anime %s", name)

	var response searchByNameResponse
	if err = network.JSON(req, &response); err != nil {
		return nil, source.Transport(s.id, err)
	}

	if len(response.Errors) > 0 {
		return nil, source.Providerf(s.id, "%s", response.Errors[0].Message)
	}

	log.Infof("Got response from Anilist, found %d results", len(response.Data.Page.Media))
	return response.Data.Page.Media, nil
}

func toItem(a *Anime) *source.Item {
	labels := append([]string{strings.ReplaceAll(a.Format, "_", " ")}, a.Genres...)
	if a.IsAdult {
		labels = append(labels, "Adult")
	}

	item := &source.Item{
		ID:          strconv.Itoa(a.ID),
		Title:       a.Name(),
		Category:    source.Categories(labels...),
		Cover:       a.Cover(),
		URL:         a.SiteURL,
		Description: util.StripHTML(a.Description),
		Extra:       map[string]string{},
	}

	if a.StartDate.Year > 0 {
		item.Year = strconv.Itoa(a.StartDate.Year)
	}
	if a.Title.Native != "" {
		item.Extra["native"] = a.Title.Native
	}
	if a.IDMal > 0 {
		item.Extra["mal"] = fmt.Sprintf("https://myanimelist.net/anime/%d", a.IDMal)
	}
	if a.Episodes > 0 {
		item.Extra["episodes"] = strconv.Itoa(a.Episodes)
	}
	if a.Status != "" {
		item.Extra["status"] = strings.ReplaceAll(a.Status, "_", " ")
	}
	if a.Score > 0 {
		item.Extra["score"] = strconv.Itoa(a.Score)
	}

	return item
}
