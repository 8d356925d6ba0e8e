package middleware

import (
    "context"
    "errors"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/edirne-events/events-api/internal/config"
)

// tokenBucketScript takes one token from the bucket at KEYS[1], first
// crediting one token per whole interval elapsed since the last refill.
// ARGV: now (ms), capacity, interval (ms), ttl (s).
// Returns {allowed, tokens left, retry after (ms)}.
var tokenBucketScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1]) or capacity
local ts = tonumber(state[2]) or now

local earned = math.floor((now - ts) / interval)
if earned > 0 then
    tokens = math.min(capacity, tokens + earned)
    ts = ts + earned * interval
end

local allowed, retry = 0, 0
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
else
    retry = interval - (now - ts)
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', KEYS[1], ttl)
return {allowed, tokens, retry}
`)

var errUnexpectedReply = errors.New("unexpected rate limit reply")

type verdict struct {
    allowed    bool
    remaining  int64
    retryAfter time.Duration
}

type bucket struct {
    rdb *redis.Client
    cfg config.RateLimitConfig
}

func (b bucket) take(ctx context.Context, key string, now time.Time) (verdict, error) {
    res, err := tokenBucketScript.Run(ctx, b.rdb, []string{key},
        now.UnixMilli(), b.cfg.Capacity, b.cfg.RefillInterval.Milliseconds(), int64(b.cfg.TTL()/time.Second),
    ).Int64Slice()
    if err != nil {
        return verdict{}, err
    }
    if len(res) != 3 {
        return verdict{}, errUnexpectedReply
    }
    return verdict{
        allowed:    res[0] == 1,
        remaining:  res[1],
        retryAfter: time.Duration(res[2]) * time.Millisecond,
    }, nil
}

// rateKey is prefix:family:ip:identity.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    return strings.Join([]string{cfg.Prefix, cfg.Name, ip, identityKey(c)}, ":")
}

// NewTokenBucket limits requests with the redis token bucket described by
// cfg.  When redis is missing or fails, requests pass.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    b := bucket{rdb: rdb, cfg: cfg}
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg, c)
            v, err := b.take(c.Request().Context(), key, time.Now())
            if err != nil {
                slog.Warn("rate limit check failed", "key", key, "error", err)
                return next(c)
            }
            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(v.remaining, 10))
            if !v.allowed {
                secs := int((v.retryAfter + time.Second - 1) / time.Second)
                h.Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":      "Çok fazla istek gönderdiniz, lütfen biraz sonra tekrar deneyin",
                    "retryAfter": secs,
                })
            }
            return next(c)
        }
    }
}
