// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Tansaku is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	Tansaku = "tansaku"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Repository is the project home, used for release links.
	Repository = "https://github.com/tansaku/tansaku"

	// UserAgent is the default HTTP User-Agent string used for requests to external providers.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
