// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "TANSAKU_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the primary configuration directory.
// The TANSAKU_CONFIG_PATH override takes precedence over the platform default.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Tansaku))
}

// Cache resolves the persistent cache directory, falling back to ./cache when the platform has none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Tansaku))
}

// Results resolves the directory holding per-provider result caches.
func Results() string {
	return ensureDir(filepath.Join(Cache(), "results"))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sources resolves the directory containing user Lua provider scripts.
func Sources() string {
	return ensureDir(filepath.Join(Config(), "sources"))
}

// Library resolves the default location of the personal media index.
func Library() string {
	return filepath.Join(Cache(), "library.bleve")
}

// Temp resolves a volatile path for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Tansaku))
}
