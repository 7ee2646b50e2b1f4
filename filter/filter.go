// Package filter removes items whose category matches a denylist.
package filter

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/source"
)

// Policy is the content filter configuration.
type Policy struct {
	Enabled  bool
	Denylist []string
}

// FromConfig reads the policy from the current configuration.
func FromConfig() Policy {
	return Policy{
		Enabled:  viper.GetBool(key.FilterEnabled),
		Denylist: viper.GetStringSlice(key.FilterDenylist),
	}
}

// Blocks reports whether category contains any of the denylisted terms, ignoring case.
func (p Policy) Blocks(category string) bool {
	if !p.Enabled {
		return false
	}

	category = strings.ToLower(category)
	for _, term := range p.Denylist {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && strings.Contains(category, term) {
			return true
		}
	}

	return false
}

// Apply returns the items the policy lets through.
// The input slice is never modified. With the policy disabled the input is returned as is.
func Apply(items []*source.Item, p Policy) []*source.Item {
	if !p.Enabled {
		return items
	}

	return lo.Filter(items, func(item *source.Item, _ int) bool {
		return item != nil && !p.Blocks(item.Category)
	})
}
