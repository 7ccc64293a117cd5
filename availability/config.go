package availability

import (
	"time"
)

// EngineConfig holds configuration options for the availability engine
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig
}

// DefaultEngineConfig keeps the engine a pure function: no caching. Suitable
// for request-scoped computation where busy periods change between calls.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: false,
}

// CachedEngineConfig enables result caching with the default cache settings.
// Useful when the same group and window are recomputed repeatedly, e.g. while
// several invitees look at the same scheduling page.
var CachedEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
}

// HighTrafficConfig is tuned for many concurrent scheduling sessions.
var HighTrafficConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             30 * time.Minute,
		MaxEntries:      5000,
		CleanupInterval: 10 * time.Minute,
	},
}

// LowMemoryConfig caches aggressively little for constrained environments.
var LowMemoryConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 2 * time.Minute,
	},
}
