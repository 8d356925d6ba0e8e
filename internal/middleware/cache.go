package middleware

import (
    "context"
    "crypto/sha1"
    "errors"
    "fmt"
    "log/slog"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/edirne-events/events-api/internal/config"
)

// ResponseCache keeps successful GET responses of the public browse
// endpoints in redis.  Every key embeds a generation number.  Admin and
// moderation writes bump the generation through Invalidate, so a freshly
// approved event shows up on the next request instead of after the TTL;
// entries of older generations simply expire.
type ResponseCache struct {
    rdb *redis.Client
    cfg config.CacheConfig
}

// NewResponseCache returns a cache.  A nil client or a disabled config
// yields a cache whose middlewares pass everything through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
    return &ResponseCache{rdb: rdb, cfg: cfg}
}

func (rc *ResponseCache) off() bool { return rc == nil || rc.rdb == nil || !rc.cfg.Enabled }

func (rc *ResponseCache) genKey() string { return rc.cfg.Prefix + ":gen" }

func (rc *ResponseCache) generation(ctx context.Context) (int64, error) {
    n, err := rc.rdb.Get(ctx, rc.genKey()).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return n, err
}

// entryKey hashes the concrete path and query, so /events/1 and /events/2
// never share an entry.
func (rc *ResponseCache) entryKey(c echo.Context, gen int64) string {
    u := c.Request().URL
    sum := sha1.Sum([]byte(u.Path + "?" + u.RawQuery))
    return fmt.Sprintf("%s:%d:%x", rc.cfg.Prefix, gen, sum[:])
}

// Middleware serves hits and records misses.  Requests carrying an
// Authorization header bypass the cache.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
    if rc.off() {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            if req.Method != http.MethodGet || req.Header.Get(echo.HeaderAuthorization) != "" {
                return next(c)
            }
            ctx := req.Context()
            gen, err := rc.generation(ctx)
            if err != nil {
                slog.Warn("cache generation lookup failed", "error", err)
                return next(c)
            }
            key := rc.entryKey(c, gen)

            if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                if hit, ok := decodeResponse(bs); ok {
                    hit.Header.Del("X-Cache")
                    c.Response().Header().Set("X-Cache", "HIT")
                    return hit.replay(c)
                }
            }

            rec := record(c, rc.cfg.MaxBodyBytes)
            c.Response().Header().Set("X-Cache", "MISS")
            herr := next(c)
            rec.detach(c)
            if herr != nil || rec.status != http.StatusOK || rec.truncated {
                return herr
            }
            payload, err := rec.encode(c.Response().Header())
            if err == nil {
                err = rc.rdb.Set(context.Background(), key, payload, rc.cfg.TTL).Err()
            }
            if err != nil {
                slog.Warn("cache store failed", "key", key, "error", err)
            }
            return nil
        }
    }
}

// Invalidate bumps the generation after every successful write that passes
// through it.  Reads are not affected.
func (rc *ResponseCache) Invalidate() echo.MiddlewareFunc {
    if rc.off() {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            err := next(c)
            m := c.Request().Method
            if err != nil || m == http.MethodGet || m == http.MethodHead || c.Response().Status >= http.StatusBadRequest {
                return err
            }
            ctx, cancel := context.WithTimeout(context.Background(), time.Second)
            defer cancel()
            if ierr := rc.rdb.Incr(ctx, rc.genKey()).Err(); ierr != nil {
                slog.Warn("cache invalidation failed", "error", ierr)
            }
            return nil
        }
    }
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
