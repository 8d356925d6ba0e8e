package config

import "time"

// CacheConfig controls the redis response cache in front of the public
// browse endpoints (events, venues, categories).
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
    c := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", time.Minute),
        Prefix:       getenv("CACHE_PREFIX", "edirne:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if c.TTL <= 0 {
        c.TTL = time.Minute
    }
    return c
}

// RateLimitConfig describes one token bucket family.  A bucket holds up to
// Capacity tokens and earns one back every RefillInterval.  Buckets are
// keyed by client IP and caller identity, so every route sharing a family
// also shares the budget.
type RateLimitConfig struct {
    Enabled        bool
    Name           string
    Capacity       int
    RefillInterval time.Duration
    Prefix         string
}

// TTL is how long an idle bucket is kept: long enough to refill completely.
func (r RateLimitConfig) TTL() time.Duration {
    ttl := time.Duration(r.Capacity) * r.RefillInterval
    if ttl < time.Minute {
        ttl = time.Minute
    }
    return ttl
}

// RateLimits groups the bucket families.  Submissions guards the anonymous
// submission forms and is the tighter one; Accounts guards sign-in,
// registration, admin verification and user writes.
type RateLimits struct {
    Submissions RateLimitConfig
    Accounts    RateLimitConfig
}

// LoadRateLimits reads RATE_LIMIT_* variables.
func LoadRateLimits() RateLimits {
    enabled := envBool("RATE_LIMIT_ENABLED", true)
    prefix := getenv("RATE_LIMIT_PREFIX", "edirne:rl")
    return RateLimits{
        Submissions: bucket(RateLimitConfig{
            Enabled:        enabled,
            Name:           "submit",
            Capacity:       envInt("RATE_LIMIT_SUBMIT_CAPACITY", 5),
            RefillInterval: envDur("RATE_LIMIT_SUBMIT_REFILL", 2*time.Minute),
            Prefix:         prefix,
        }),
        Accounts: bucket(RateLimitConfig{
            Enabled:        enabled,
            Name:           "account",
            Capacity:       envInt("RATE_LIMIT_ACCOUNT_CAPACITY", 20),
            RefillInterval: envDur("RATE_LIMIT_ACCOUNT_REFILL", 3*time.Second),
            Prefix:         prefix,
        }),
    }
}

func bucket(r RateLimitConfig) RateLimitConfig {
    if r.Capacity < 1 {
        r.Capacity = 1
    }
    if r.RefillInterval <= 0 {
        r.RefillInterval = time.Second
    }
    return r
}
