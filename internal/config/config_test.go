package config

import (
    "context"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
)

func TestLoadRateLimitsDefaults(t *testing.T) {
    for _, k := range []string{"RATE_LIMIT_ENABLED", "RATE_LIMIT_PREFIX", "RATE_LIMIT_SUBMIT_CAPACITY",
        "RATE_LIMIT_SUBMIT_REFILL", "RATE_LIMIT_ACCOUNT_CAPACITY", "RATE_LIMIT_ACCOUNT_REFILL"} {
        t.Setenv(k, "")
    }
    l := LoadRateLimits()
    if !l.Submissions.Enabled || l.Submissions.Name != "submit" || l.Submissions.Capacity != 5 ||
        l.Submissions.RefillInterval != 2*time.Minute || l.Submissions.Prefix != "edirne:rl" {
        t.Fatalf("submissions = %+v", l.Submissions)
    }
    if l.Accounts.Name != "account" || l.Accounts.Capacity != 20 || l.Accounts.RefillInterval != 3*time.Second {
        t.Fatalf("accounts = %+v", l.Accounts)
    }
}

func TestLoadRateLimitsFromEnv(t *testing.T) {
    t.Setenv("RATE_LIMIT_ENABLED", "off")
    t.Setenv("RATE_LIMIT_PREFIX", "rl")
    t.Setenv("RATE_LIMIT_SUBMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_SUBMIT_REFILL", "-5s")
    t.Setenv("RATE_LIMIT_ACCOUNT_CAPACITY", "abc")
    t.Setenv("RATE_LIMIT_ACCOUNT_REFILL", "10s")

    l := LoadRateLimits()
    if l.Submissions.Enabled || l.Accounts.Enabled {
        t.Fatal("RATE_LIMIT_ENABLED=off should disable both families")
    }
    if l.Submissions.Capacity != 1 || l.Submissions.RefillInterval != time.Second {
        t.Fatalf("submissions not clamped: %+v", l.Submissions)
    }
    if l.Accounts.Capacity != 20 || l.Accounts.RefillInterval != 10*time.Second || l.Accounts.Prefix != "rl" {
        t.Fatalf("accounts = %+v", l.Accounts)
    }
}

func TestRateLimitTTL(t *testing.T) {
    tests := []struct {
        capacity int
        refill   time.Duration
        want     time.Duration
    }{
        {5, 2 * time.Minute, 10 * time.Minute},
        {20, 3 * time.Second, time.Minute},
        {1, time.Second, time.Minute},
    }
    for _, tt := range tests {
        got := RateLimitConfig{Capacity: tt.capacity, RefillInterval: tt.refill}.TTL()
        if got != tt.want {
            t.Errorf("TTL(%d, %v) = %v, want %v", tt.capacity, tt.refill, got, tt.want)
        }
    }
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_ENABLED", "false")
    t.Setenv("CACHE_TTL", "0s")
    t.Setenv("CACHE_PREFIX", "")
    t.Setenv("CACHE_MAX_BODY_BYTES", "2048")

    c := LoadCacheConfig()
    if c.Enabled || c.TTL != time.Minute || c.Prefix != "edirne:cache" || c.MaxBodyBytes != 2048 {
        t.Fatalf("cache config = %+v", c)
    }
}

func TestLoadRedisConfigAddress(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6380")
    t.Setenv("REDIS_HOST", "")
    t.Setenv("REDIS_PORT", "")
    if got := LoadRedisConfig().Addr; got != "cache:6380" {
        t.Fatalf("addr = %q", got)
    }

    t.Setenv("REDIS_HOST", "redis.internal")
    t.Setenv("REDIS_PORT", "6390")
    if got := LoadRedisConfig().Addr; got != "redis.internal:6390" {
        t.Fatalf("host/port should win, addr = %q", got)
    }
}

func TestRedisOptionsTLS(t *testing.T) {
    opts := RedisConfig{Addr: "redis.internal:6390", TLS: true}.Options()
    if opts.TLSConfig == nil || opts.TLSConfig.ServerName != "redis.internal" {
        t.Fatalf("tls config = %+v", opts.TLSConfig)
    }
    plain := RedisConfig{Addr: "localhost:6379"}.Options()
    if plain.TLSConfig != nil {
        t.Fatal("plain connection should have no tls config")
    }
}

func TestConnectRedis(t *testing.T) {
    mr := miniredis.RunT(t)
    addr := mr.Addr()
    rdb, err := ConnectRedis(context.Background(), RedisConfig{Addr: addr})
    if err != nil {
        t.Fatalf("connect: %v", err)
    }
    rdb.Close()

    mr.Close()
    if _, err := ConnectRedis(context.Background(), RedisConfig{Addr: addr}); err == nil {
        t.Fatal("expected an error once the server is gone")
    }
}
