package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware that
// fronts the state and chat-feed projections.  When Enabled is false or
// no Redis client is available, caching is disabled and reads go straight
// through.  Only GET responses are ever cached.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
	Routes  map[string]bool // echo route paths eligible for caching
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults keep the cache short-lived; the state projection must reflect
// a confirmed purchase within a couple of seconds.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     getdur("CACHE_TTL", 2*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "cache"),
		Routes:  parseRoutes(getenv("CACHE_ROUTES", "/v1/state,/v1/chat/feed,/v1/wall")),
	}
}

func parseRoutes(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			m[p] = true
		}
	}
	return m
}
