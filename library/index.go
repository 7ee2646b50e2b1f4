// Package library indexes local media files with bleve and searches them.
package library

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/char/asciifolding"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/samber/lo"
)

// Document is one indexed media file.
type Document struct {
	Title    string
	Category string
	Year     string
	Path     string
}

// Index is a bleve index of Documents.
type Index struct {
	idx bleve.Index
}

var (
	handlesMu sync.Mutex
	handles   = make(map[string]*Index)
)

// Mapping is the index mapping for Documents.
func Mapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	lo.Must0(indexMapping.AddCustomAnalyzer("media",
		map[string]any{
			"type": custom.Name,
			"char_filters": []string{
				asciifolding.Name,
			},
			"tokenizer": unicode.Name,
			"token_filters": []string{
				lowercase.Name,
			},
		}))
	indexMapping.DefaultAnalyzer = "media"

	yearFieldMapping := bleve.NewTextFieldMapping()
	yearFieldMapping.Index = false
	indexMapping.DefaultMapping.AddFieldMappingsAt("Year", yearFieldMapping)

	pathFieldMapping := bleve.NewKeywordFieldMapping()
	indexMapping.DefaultMapping.AddFieldMappingsAt("Path", pathFieldMapping)

	return indexMapping
}

// OpenIndex returns the index at path, creating it when missing.
// Handles are shared per path for the life of the process since bleve locks the directory.
func OpenIndex(path string) (*Index, error) {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	if index, ok := handles[path]; ok {
		return index, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, Mapping())
	}
	if err != nil {
		return nil, err
	}

	index := &Index{idx: idx}
	handles[path] = index
	return index, nil
}

// NewMemOnly registers an in-memory index under name, which OpenIndex then returns.
func NewMemOnly(name string) (*Index, error) {
	idx, err := bleve.NewMemOnly(Mapping())
	if err != nil {
		return nil, err
	}

	index := &Index{idx: idx}

	handlesMu.Lock()
	defer handlesMu.Unlock()
	handles[name] = index

	return index, nil
}

// CloseAll closes every open index.
func CloseAll() {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	for path, index := range handles {
		_ = index.idx.Close()
		delete(handles, path)
	}
}

// Add indexes documents in one batch, keyed by path.
func (i *Index) Add(docs ...Document) error {
	batch := i.idx.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.Path, doc); err != nil {
			return err
		}
	}

	return i.idx.Batch(batch)
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	return i.idx.DocCount()
}

// Search matches query against titles, boosted, and categories.
func (i *Index) Search(ctx context.Context, q string, limit int) ([]Document, error) {
	words := strings.Fields(q)
	if len(words) == 0 {
		return nil, nil
	}

	field := func(name string, boost float64) query.Query {
		queries := lo.Map(words, func(word string, _ int) query.Query {
			m := bleve.NewMatchQuery(word)
			m.SetField(name)
			m.SetFuzziness(1)
			return m
		})
		compound := bleve.NewConjunctionQuery(queries...)
		compound.SetBoost(boost)
		return compound
	}

	request := bleve.NewSearchRequestOptions(
		bleve.NewDisjunctionQuery(field("Title", 10), field("Category", 1)),
		limit, 0, false,
	)
	request.Fields = []string{"Title", "Category", "Year", "Path"}

	result, err := i.idx.SearchInContext(ctx, request)
	if err != nil {
		return nil, err
	}

	return lo.Map(result.Hits, func(hit *search.DocumentMatch, _ int) Document {
		return Document{
			Title:    stringField(hit.Fields, "Title"),
			Category: stringField(hit.Fields, "Category"),
			Year:     stringField(hit.Fields, "Year"),
			Path:     hit.ID,
		}
	}), nil
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}
