package config

import "time"

// AuthConfig controls how resolved identities are cached.
type AuthConfig struct {
	// CacheTTL bounds how long a token's identity is reused before USER_AUTH
	// is asked again. Zero or negative disables the cache.
	CacheTTL time.Duration `env:"AUTH_CACHE_TTL" envDefault:"1m"`

	// CachePrefix namespaces the identity keys in Redis.
	CachePrefix string `env:"AUTH_CACHE_PREFIX" envDefault:"creator:identity:"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.CacheTTL < 0 {
		a.CacheTTL = 0
	}
	if a.CachePrefix == "" {
		a.CachePrefix = "creator:identity:"
	}
}

// CacheEnabled reports whether identities are cached.
func (a *AuthConfig) CacheEnabled() bool {
	return a.CacheTTL > 0
}
