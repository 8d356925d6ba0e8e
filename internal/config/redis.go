package config

import (
    "context"
    "crypto/tls"
    "net"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig locates the redis server backing the response cache, rate
// limits, idempotency keys and admin verification codes.
type RedisConfig struct {
    Addr        string
    Password    string
    DB          int
    TLS         bool
    TLSInsecure bool
}

// LoadRedisConfig reads REDIS_* variables.  REDIS_HOST and REDIS_PORT take
// precedence over REDIS_ADDR when both are set.
func LoadRedisConfig() RedisConfig {
    addr := getenv("REDIS_ADDR", "localhost:6379")
    if host, port := getenv("REDIS_HOST", ""), getenv("REDIS_PORT", ""); host != "" && port != "" {
        addr = net.JoinHostPort(host, port)
    }
    return RedisConfig{
        Addr:        addr,
        Password:    getenv("REDIS_PASSWORD", ""),
        DB:          envInt("REDIS_DB", 0),
        TLS:         envBool("REDIS_TLS", false),
        TLSInsecure: envBool("REDIS_TLS_INSECURE", false),
    }
}

// Options converts rc into go-redis client options.
func (rc RedisConfig) Options() *redis.Options {
    opts := &redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB}
    if rc.TLS {
        host, _, err := net.SplitHostPort(rc.Addr)
        if err != nil {
            host = rc.Addr
        }
        opts.TLSConfig = &tls.Config{
            ServerName:         host,
            MinVersion:         tls.VersionTLS12,
            InsecureSkipVerify: rc.TLSInsecure,
        }
    }
    return opts
}

// ConnectRedis opens a client and pings it.  Callers treat an error as
// "run without redis": caching, rate limiting and idempotency are skipped
// and verification codes are unavailable.
func ConnectRedis(ctx context.Context, rc RedisConfig) (*redis.Client, error) {
    client := redis.NewClient(rc.Options())
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil, err
    }
    return client, nil
}
