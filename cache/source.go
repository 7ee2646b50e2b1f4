package cache

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/source"
	"github.com/tansaku/tansaku/util"
	"github.com/tansaku/tansaku/where"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	Items    []*source.Item `json:"items"`
	StoredAt time.Time      `json:"storedAt"`
}

var (
	initOnce sync.Once
	memory   *expirable.LRU[string, []*source.Item]
	flights  singleflight.Group

	disksMu sync.Mutex
	disks   = make(map[string]*Store[string, entry])
)

// flightTimeout bounds a shared upstream call independently of the callers waiting on it.
func flightTimeout() time.Duration {
	if d := time.Duration(viper.GetInt(key.SearchProviderTimeout)) * time.Second; d > 0 {
		return d
	}
	return 20 * time.Second
}

func ttl() time.Duration {
	return time.Duration(viper.GetInt(key.CacheTTL)) * time.Minute
}

func setup() {
	initOnce.Do(func() {
		size := viper.GetInt(key.CacheMemorySize)
		if size <= 0 {
			size = 512
		}
		memory = expirable.NewLRU[string, []*source.Item](size, nil, ttl())
	})
}

func diskFor(id string) *Store[string, entry] {
	disksMu.Lock()
	defer disksMu.Unlock()

	if s, ok := disks[id]; ok {
		return s
	}

	path := filepath.Join(where.Results(), util.SanitizeFilename(id)+".json")
	s := NewStore[string, entry](path, 0, nil)
	disks[id] = s
	return s
}

// Purge drops every cached result held in memory.
func Purge() {
	setup()
	memory.Purge()

	disksMu.Lock()
	defer disksMu.Unlock()
	clear(disks)
}

func normalizedQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

type cachedSource struct {
	inner source.Source
}

// Wrap returns src with a read-through result cache in front of it.
// Lookups go memory first, then disk. Concurrent identical queries share one upstream call,
// which runs to completion under search.provider_timeout even if its first caller leaves.
// Failures are never cached.
func Wrap(src source.Source) source.Source {
	setup()
	return &cachedSource{inner: src}
}

func (c *cachedSource) ID() string {
	return c.inner.ID()
}

func (c *cachedSource) Name() string {
	return c.inner.Name()
}

func (c *cachedSource) Search(ctx context.Context, query string) ([]*source.Item, error) {
	q := normalizedQuery(query)
	memKey := c.inner.ID() + "\x00" + q

	if items, ok := memory.Get(memKey); ok {
		return items, nil
	}

	disk := diskFor(c.inner.ID())
	if e, ok := disk.Get(q).Get(); ok && time.Since(e.StoredAt) < ttl() {
		memory.Add(memKey, e.Items)
		return e.Items, nil
	}

	// The shared call outlives any one caller's deadline; each caller stops waiting on its own.
	ch := flights.DoChan(memKey, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout())
		defer cancel()

		items, err := c.inner.Search(flightCtx, query)
		if err != nil {
			return nil, err
		}

		memory.Add(memKey, items)
		if err := disk.Set(q, entry{Items: items, StoredAt: time.Now()}); err != nil {
			log.Warnf("cache: persist %s: %s", c.inner.ID(), err)
		}

		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*source.Item), nil
	}
}
