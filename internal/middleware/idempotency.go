package middleware

import (
    "context"
    "crypto/sha1"
    "fmt"
    "log/slog"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// IdempotencyHeader names the request header that makes a moderation call
// safe to retry.
const IdempotencyHeader = "Idempotency-Key"

const (
    idempotencyPrefix = "edirne:idem"
    inFlightMarker    = "inflight"
)

// Idempotency records the outcome of the first request carrying a given
// Idempotency-Key and replays it for every later request with the same key
// on the same route.  While the first request is still running, duplicates
// get 409.  Responses with a 5xx status are not kept so the client can
// retry.  Requests without the header, or a nil client, pass through.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
    if rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    if ttl <= 0 {
        ttl = 24 * time.Hour
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := c.Request().Header.Get(IdempotencyHeader)
            if raw == "" {
                return next(c)
            }
            ctx := c.Request().Context()
            key := idempotencyKey(c, raw)

            ok, err := rdb.SetNX(ctx, key, inFlightMarker, ttl).Result()
            if err != nil {
                slog.Warn("idempotency store unavailable", "error", err)
                return next(c)
            }
            if !ok {
                bs, err := rdb.Get(ctx, key).Bytes()
                prev, stored := decodeResponse(bs)
                if err != nil || !stored {
                    return c.JSON(http.StatusConflict, echo.Map{"error": "Aynı Idempotency-Key ile bir istek hâlâ işleniyor"})
                }
                c.Response().Header().Set("Idempotent-Replayed", "true")
                return prev.replay(c)
            }

            rec := record(c, 0)
            herr := next(c)
            rec.detach(c)

            // Detached from the request so a client disconnect cannot leave
            // the key stuck in flight.
            bg, cancel := context.WithTimeout(context.Background(), 2*time.Second)
            defer cancel()
            if herr != nil || rec.status >= http.StatusInternalServerError {
                _ = rdb.Del(bg, key).Err()
                return herr
            }
            payload, err := rec.encode(c.Response().Header())
            if err == nil {
                err = rdb.Set(bg, key, payload, ttl).Err()
            }
            if err != nil {
                slog.Warn("idempotency record failed", "key", key, "error", err)
                _ = rdb.Del(bg, key).Err()
            }
            return nil
        }
    }
}

func idempotencyKey(c echo.Context, raw string) string {
    sum := sha1.Sum([]byte(c.Request().Method + " " + c.Request().URL.Path + " " + raw))
    return fmt.Sprintf("%s:%x", idempotencyPrefix, sum[:])
}
