// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Provider Catalogue - these keys describe which providers exist and how user scripts are discovered.
const (
	Providers      = "providers"
	SourcesScripts = "sources.scripts"
)

// Search Dispatch - these keys tune the per-session fan-out.
const (
	SearchProviderTimeout = "search.provider_timeout"
	SearchMaxPages        = "search.max_pages"
)

// Content Policy - these keys drive the category denylist applied to provider results.
const (
	FilterEnabled  = "filter.enabled"
	FilterDenylist = "filter.denylist"
)

// Result Cache - these keys govern the side lookup placed in front of provider adapters.
const (
	CacheEnabled    = "cache.enabled"
	CacheMemorySize = "cache.memory_size"
	CacheTTL        = "cache.ttl"
)

// HTTP Server - these keys configure the streaming search endpoint.
const (
	ServerAddress   = "server.address"
	ServerHeartbeat = "server.heartbeat"
	ServerRateLimit = "server.rate_limit"
)

// Authentication - these keys control how caller identity is established.
const (
	AuthRequired = "auth.required"
	AuthSecret   = "auth.secret"
)

// Personal Library - these keys locate the local media index.
const (
	LibraryPath = "library.path"
	LibraryRoot = "library.root"
)

// Iconography - these keys manage the visual rendering of CLI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsFile  = "logs.file"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern command-line behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
