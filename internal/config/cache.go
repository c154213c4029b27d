package config

import (
	"time"
)

// CacheConfig defines settings for the read-endpoint response cache.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// Cached entries are keyed by venue and route and carry the venue's write
// epoch, so any transition engine write invalidates the venue's cached
// reads immediately instead of waiting out the TTL.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.  The TTL is deliberately
// short; the epoch check is the real invalidation mechanism and the TTL
// only bounds Redis memory usage.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1048576),
	}
}
