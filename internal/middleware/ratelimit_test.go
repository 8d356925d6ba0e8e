package middleware

import (
    "context"
    "net/http"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/config"
)

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
    rdb, _ := newRedis(t)
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Name:           "submit",
        Capacity:       2,
        RefillInterval: time.Hour,
        Prefix:         "test:rl",
    }
    e := echo.New()
    limit := NewTokenBucket(cfg, rdb)
    created := func(c echo.Context) error { return c.NoContent(http.StatusCreated) }
    e.POST("/submit-event", created, limit)
    e.POST("/submit-venue", created, limit)

    rec := do(e, http.MethodPost, "/submit-event", nil)
    expectStatus(t, rec, http.StatusCreated)
    if rec.Header().Get("X-RateLimit-Remaining") != "1" {
        t.Fatalf("remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
    }
    // Both forms draw from the same family budget.
    expectStatus(t, do(e, http.MethodPost, "/submit-venue", nil), http.StatusCreated)
    rec = do(e, http.MethodPost, "/submit-event", nil)
    expectStatus(t, rec, http.StatusTooManyRequests)
    if got := rec.Header().Get("Retry-After"); got != "3600" {
        t.Fatalf("Retry-After = %q, want 3600", got)
    }
}

func TestTokenBucketTake(t *testing.T) {
    rdb, _ := newRedis(t)
    b := bucket{rdb: rdb, cfg: config.RateLimitConfig{Capacity: 1, RefillInterval: time.Minute}}
    ctx, cancel := context.WithCancel(context.Background())
    t.Cleanup(cancel)
    now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

    if v, err := b.take(ctx, "k", now); err != nil || !v.allowed {
        t.Fatalf("first take = %+v, %v", v, err)
    }
    v, err := b.take(ctx, "k", now.Add(20*time.Second))
    if err != nil || v.allowed || v.retryAfter != 40*time.Second {
        t.Fatalf("second take = %+v, %v", v, err)
    }
    if v, err := b.take(ctx, "k", now.Add(time.Minute)); err != nil || !v.allowed {
        t.Fatalf("take after refill = %+v, %v", v, err)
    }
}

func TestTokenBucketDisabledWithoutRedis(t *testing.T) {
    cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillInterval: time.Hour}
    e := echo.New()
    e.POST("/submit-venue", func(c echo.Context) error { return c.NoContent(http.StatusCreated) }, NewTokenBucket(cfg, nil))
    for i := 0; i < 3; i++ {
        expectStatus(t, do(e, http.MethodPost, "/submit-venue", nil), http.StatusCreated)
    }
}

func TestRateKeyUsesIdentity(t *testing.T) {
    e := echo.New()
    req := httptestRequest(http.MethodPost, "/reviews")
    req.RemoteAddr = "203.0.113.9:5000"
    c := e.NewContext(req, nil)
    cfg := config.RateLimitConfig{Prefix: "rl", Name: "account"}

    if got := rateKey(cfg, c); got != "rl:account:203.0.113.9:anon" {
        t.Fatalf("anonymous key = %q", got)
    }
    c.Set(ctxUserID, uint64(9))
    c.Set(ctxRole, "USER")
    if got := rateKey(cfg, c); got != "rl:account:203.0.113.9:9" {
        t.Fatalf("user key = %q", got)
    }
    c.Set(ctxUserID, uint64(0))
    c.Set(ctxRole, "ADMIN")
    if got := rateKey(cfg, c); got != "rl:account:203.0.113.9:ADMIN" {
        t.Fatalf("admin key = %q", got)
    }
}
