package library

import (
	"context"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/source"
)

const resultLimit = 50

// Source searches a personal media index.
type Source struct {
	id, name string
	index    *Index
}

// Open returns a source over the index at path.
func Open(id, name, path string) (*Source, error) {
	index, err := OpenIndex(path)
	if err != nil {
		return nil, source.Providerf(id, "open index: %s", err)
	}

	return &Source{id: id, name: name, index: index}, nil
}

func (s *Source) ID() string {
	return s.id
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Search(ctx context.Context, query string) ([]*source.Item, error) {
	docs, err := s.index.Search(ctx, query, resultLimit)
	if err != nil {
		return nil, err
	}

	return lo.Map(docs, func(d Document, _ int) *source.Item {
		return &source.Item{
			ID:       d.Path,
			Title:    d.Title,
			Category: d.Category,
			Year:     d.Year,
			URL:      "file://" + filepath.ToSlash(d.Path),
			Extra:    map[string]string{"path": d.Path},
		}
	}), nil
}
