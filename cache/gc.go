package cache

import (
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/tansaku/tansaku/filesystem"
	"github.com/tansaku/tansaku/log"
	"github.com/tansaku/tansaku/where"
)

// CollectGarbage removes result files not written to for longer than cache.ttl.
// It returns how many files were removed.
func CollectGarbage() int {
	lifetime := ttl()
	if lifetime <= 0 {
		return 0
	}

	var removed int
	_ = afero.Walk(filesystem.API(), where.Results(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if time.Since(info.ModTime()) > lifetime {
			if err := filesystem.API().Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})

	if removed > 0 {
		log.Debugf("cache: removed %d stale result files", removed)
	}
	return removed
}
