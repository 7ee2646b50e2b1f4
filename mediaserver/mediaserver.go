// Package mediaserver searches the catalogue of an Emby or Jellyfin server.
package mediaserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/network"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/util"
)

const itemTypes = "Movie,Series,Episode,MusicVideo,Video"

type itemsResponse struct {
	Items            []*item `json:"Items"`
	TotalRecordCount int     `json:"TotalRecordCount"`
}

type item struct {
	ID             string            `json:"Id"`
	Name           string            `json:"Name"`
	Type           string            `json:"Type"`
	SeriesName     string            `json:"SeriesName"`
	ProductionYear int               `json:"ProductionYear"`
	Overview       string            `json:"Overview"`
	OfficialRating string            `json:"OfficialRating"`
	Genres         []string          `json:"Genres"`
	ImageTags      map[string]string `json:"ImageTags"`
}

// Source searches one media server with an API key.
type Source struct {
	id, name string
	base     string
	token    string
	limit    int
}

// New returns a source for the server at base, e.g. http://jellyfin.lan:8096.
func New(id, name, base, token string) *Source {
	return &Source{id: id, name: name, base: strings.TrimRight(base, "/"), token: token, limit: 50}
}

func (s *Source) ID() string {
	return s.id
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Search(ctx context.Context, query string) ([]*source.Item, error) {
	u, err := url.Parse(s.base + "/Items")
	if err != nil {
		return nil, source.Providerf(s.id, "bad url: %s", err)
	}

	q := u.Query()
	q.Set("searchTerm", query)
	q.Set("Recursive", "true")
	q.Set("IncludeItemTypes", itemTypes)
	q.Set("Fields", "Overview,Genres,ProductionYear,OfficialRating")
	q.Set("Limit", strconv.Itoa(s.limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("X-Emby-Token", s.token)
	}

	var resp itemsResponse
	if err = network.JSON(req, &resp); err != nil {
		var status *network.StatusError
		if errors.As(err, &status) && status.Code == http.StatusUnauthorized {
			return nil, source.Providerf(s.id, "unauthorized, check the api key")
		}
		return nil, source.Transport(s.id, err)
	}

	return lo.Map(resp.Items, func(i *item, _ int) *source.Item { return s.toItem(i) }), nil
}

func (s *Source) toItem(i *item) *source.Item {
	title := i.Name
	if i.Type == "Episode" && i.SeriesName != "" {
		title = fmt.Sprintf("%s - %s", i.SeriesName, i.Name)
	}

	out := &source.Item{
		ID:          i.ID,
		Title:       title,
		Category:    source.Categories(append([]string{i.Type}, i.Genres...)...),
		URL:         fmt.Sprintf("%s/web/index.html#!/details?id=%s", s.base, i.ID),
		Description: util.StripHTML(i.Overview),
		Extra:       map[string]string{},
	}

	if i.ProductionYear > 0 {
		out.Year = strconv.Itoa(i.ProductionYear)
	}
	if tag, ok := i.ImageTags["Primary"]; ok {
		out.Cover = fmt.Sprintf("%s/Items/%s/Images/Primary?tag=%s", s.base, i.ID, url.QueryEscape(tag))
	}
	if i.OfficialRating != "" {
		out.Extra["rating"] = i.OfficialRating
	}

	return out
}
