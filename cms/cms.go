package cms

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/network"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/util"
	"golang.org/x/sync/errgroup"
)

const (
	playSourceSeparator = "$$$"
	episodeSeparator    = "#"
	nameURLSeparator    = "$"
)

// Source searches one Apple CMS endpoint.
type Source struct {
	id, name string
	endpoint string
	maxPages int
}

// New returns a source for the collection API at endpoint, e.g. https://example.com/api.php/provide/vod/.
// At most maxPages result pages are fetched per query.
func New(id, name, endpoint string, maxPages int) *Source {
	return &Source{id: id, name: name, endpoint: endpoint, maxPages: util.Max(maxPages, 1)}
}

func (s *Source) ID() string {
	return s.id
}

func (s *Source) Name() string {
	return s.name
}

// Search fetches the first page, then the remaining pages up to the limit in parallel.
// A failing extra page is skipped.
func (s *Source) Search(ctx context.Context, query string) ([]*source.Item, error) {
	first, err := s.page(ctx, query, 1)
	if err != nil {
		return nil, err
	}

	pages := make([][]*vod, util.Min(int(first.PageCount), s.maxPages))
	if len(pages) == 0 {
		pages = make([][]*vod, 1)
	}
	pages[0] = first.List

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(4)

	for n := 2; n <= len(pages); n++ {
		g.Go(func() error {
			resp, err := s.page(ctx, query, n)
			if err != nil {
				log.Warnf("%s: page %d: %s", s.id, n, err)
				return nil
			}

			mu.Lock()
			pages[n-1] = resp.List
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return lo.FilterMap(lo.Flatten(pages), func(v *vod, _ int) (*source.Item, bool) {
		if v == nil || v.Name == "" {
			return nil, false
		}
		return s.toItem(v), true
	}), nil
}

func (s *Source) page(ctx context.Context, query string, n int) (*response, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, source.Providerf(s.id, "bad endpoint: %s", err)
	}

	q := u.Query()
	q.Set("ac", "videolist")
	q.Set("wd", query)
	if n > 1 {
		q.Set("pg", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	var resp response
	if err = network.JSON(req, &resp); err != nil {
		return nil, source.Transport(s.id, err)
	}

	if resp.Code != 1 {
		return nil, source.Providerf(s.id, "code %d: %s", resp.Code, resp.Msg)
	}

	return &resp, nil
}

func (s *Source) toItem(v *vod) *source.Item {
	item := &source.Item{
		ID:          v.ID.String(),
		Title:       strings.TrimSpace(v.Name),
		Category:    source.Categories(v.TypeName, v.Class),
		Year:        strings.TrimSpace(v.Year),
		Cover:       v.Pic,
		Description: util.StripHTML(v.Content),
		Episodes:    episodes(v.PlayURL),
		Extra:       map[string]string{},
	}

	if len(item.Episodes) > 0 {
		item.URL = item.Episodes[0]
	}

	for k, val := range map[string]string{
		"remarks":  v.Remarks,
		"area":     v.Area,
		"actor":    v.Actor,
		"director": v.Director,
		"from":     strings.Split(v.PlayFrom, playSourceSeparator)[0],
	} {
		if val = strings.TrimSpace(val); val != "" {
			item.Extra[k] = val
		}
	}

	return item
}

// episodes returns the urls of the first play source with any.
// The format is "name$url#name$url" per source, sources separated by "$$$".
func episodes(playURL string) []string {
	for _, group := range strings.Split(playURL, playSourceSeparator) {
		var urls []string
		for _, entry := range strings.Split(group, episodeSeparator) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}

			_, u, found := strings.Cut(entry, nameURLSeparator)
			if !found {
				u = entry
			}
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}

		if len(urls) > 0 {
			return urls
		}
	}

	return nil
}
