// Package search fans a query out to every visible provider and streams each outcome as it arrives.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/auth"
	"github.com/tansaku/tansaku/filter"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/provider"
	"github.com/tansaku/tansaku/source"
)

// Opener turns a descriptor into a searchable source.
// It runs under the provider's deadline, so it should honour ctx.
type Opener func(ctx context.Context, d *provider.Descriptor) (source.Source, error)

// Dispatcher builds search sessions.
type Dispatcher struct {
	catalogue provider.Catalogue
	opener    Opener
	timeout   time.Duration
	policy    func() filter.Policy
}

type Option func(*Dispatcher)

// WithOpener replaces provider.Open.
func WithOpener(opener Opener) Option {
	return func(d *Dispatcher) { d.opener = opener }
}

// WithTimeout fixes the per-provider deadline instead of reading search.provider_timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// WithPolicy fixes the content filter instead of reading it from config.
func WithPolicy(p filter.Policy) Option {
	return func(d *Dispatcher) { d.policy = func() filter.Policy { return p } }
}

func NewDispatcher(catalogue provider.Catalogue, options ...Option) *Dispatcher {
	d := &Dispatcher{
		catalogue: catalogue,
		opener:    provider.Open,
		policy:    filter.FromConfig,
	}

	for _, option := range options {
		option(d)
	}

	return d
}

// NewSession validates the query and snapshots the providers visible to id.
// An empty provider set is valid.
func (d *Dispatcher) NewSession(ctx context.Context, query string, id auth.Identity) (*Session, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}

	descriptors, err := d.catalogue.Visible(ctx, id)
	if err != nil {
		return nil, err
	}

	descriptors = lo.UniqBy(
		lo.Filter(descriptors, func(p *provider.Descriptor, _ int) bool { return p != nil }),
		func(p *provider.Descriptor) string { return p.Key },
	)

	timeout := d.timeout
	if timeout <= 0 {
		timeout = time.Duration(viper.GetInt(key.SearchProviderTimeout)) * time.Second
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Session{
		ID:        uuid.NewString(),
		Query:     query,
		Providers: descriptors,
		Total:     len(descriptors),
		opener:    d.opener,
		timeout:   timeout,
		policy:    d.policy(),
	}, nil
}
