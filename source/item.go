package source

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Item is one search hit as reported by a provider.
// Only Category is interpreted by the search core, everything else passes through.
type Item struct {
	ID          string            `json:"id,omitempty"`
	Title       string            `json:"title"`
	Category    string            `json:"category,omitempty"`
	Year        string            `json:"year,omitempty"`
	Cover       string            `json:"cover,omitempty"`
	URL         string            `json:"url,omitempty"`
	Description string            `json:"description,omitempty"`
	Episodes    []string          `json:"episodes,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

func (i *Item) String() string {
	if i.Year == "" {
		return i.Title
	}
	return fmt.Sprintf("%s (%s)", i.Title, i.Year)
}

// Categories joins non-empty labels into a single category string.
func Categories(labels ...string) string {
	labels = lo.Map(labels, func(l string, _ int) string { return strings.TrimSpace(l) })
	return strings.Join(lo.Uniq(lo.Compact(labels)), ", ")
}
