package anilist

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/tansaku/tansaku/cache"
	"github.com/tansaku/tansaku/where"
)

func normalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// failCacher remembers failed queries for a minute so a flapping API is not hammered.
var failCacher = cache.NewStore[string, bool](
	filepath.Join(where.Cache(), "anilist_fail_cache.json"),
	time.Minute,
	normalizedName,
)
