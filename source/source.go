// Package source defines the item model and the contract every search provider implements.
package source

import "context"

// Source is a single searchable provider.
type Source interface {
	// ID returns the stable key of the provider.
	ID() string

	// Name returns the human-readable label shown next to its results.
	Name() string

	// Search queries the provider. Implementations should abort when ctx is done.
	Search(ctx context.Context, query string) ([]*Item, error)
}
