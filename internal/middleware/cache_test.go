package middleware

import (
    "net/http"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/config"
)

func cacheServer(t *testing.T) (*echo.Echo, *int) {
    t.Helper()
    rdb, _ := newRedis(t)
    rc := NewResponseCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test:cache"}, rdb)
    e := echo.New()
    calls := new(int)
    e.GET("/events/:id", func(c echo.Context) error {
        *calls++
        return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "call": *calls})
    }, rc.Middleware())
    e.PATCH("/admin/events/:id/active", func(c echo.Context) error {
        return c.NoContent(http.StatusNoContent)
    }, rc.Invalidate())
    e.PATCH("/admin/events/:id/featured", func(c echo.Context) error {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Kayıt bulunamadı"})
    }, rc.Invalidate())
    return e, calls
}

func TestResponseCacheHitsPerPath(t *testing.T) {
    e, calls := cacheServer(t)

    first := do(e, http.MethodGet, "/events/1", nil)
    if first.Header().Get("X-Cache") != "MISS" {
        t.Fatalf("first X-Cache = %q", first.Header().Get("X-Cache"))
    }
    second := do(e, http.MethodGet, "/events/1", nil)
    if second.Header().Get("X-Cache") != "HIT" || second.Body.String() != first.Body.String() {
        t.Fatalf("second = %q %q", second.Header().Get("X-Cache"), second.Body.String())
    }
    if other := do(e, http.MethodGet, "/events/2", nil); other.Header().Get("X-Cache") != "MISS" {
        t.Fatal("a different event id was served from cache")
    }
    do(e, http.MethodGet, "/events/1", map[string]string{"Authorization": "Bearer x"})
    if *calls != 3 {
        t.Fatalf("handler ran %d times, want 3", *calls)
    }
}

func TestResponseCacheInvalidatedBySuccessfulWrite(t *testing.T) {
    e, calls := cacheServer(t)

    do(e, http.MethodGet, "/events/1", nil)
    do(e, http.MethodPatch, "/admin/events/1/featured", nil)
    if rec := do(e, http.MethodGet, "/events/1", nil); rec.Header().Get("X-Cache") != "HIT" {
        t.Fatal("a failed write should not invalidate")
    }
    do(e, http.MethodPatch, "/admin/events/1/active", nil)
    if rec := do(e, http.MethodGet, "/events/1", nil); rec.Header().Get("X-Cache") != "MISS" {
        t.Fatal("a successful write should invalidate")
    }
    if *calls != 2 {
        t.Fatalf("handler ran %d times, want 2", *calls)
    }
}

func TestResponseCacheDisabled(t *testing.T) {
    rc := NewResponseCache(config.CacheConfig{Enabled: true}, nil)
    e := echo.New()
    calls := 0
    e.GET("/categories", func(c echo.Context) error { calls++; return c.NoContent(http.StatusOK) }, rc.Middleware())
    do(e, http.MethodGet, "/categories", nil)
    do(e, http.MethodGet, "/categories", nil)
    if calls != 2 {
        t.Fatalf("handler ran %d times, want 2", calls)
    }
}

func TestResponseCacheSkipsOversizedBodies(t *testing.T) {
    rdb, mr := newRedis(t)
    rc := NewResponseCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test:cache", MaxBodyBytes: 8}, rdb)
    e := echo.New()
    e.GET("/events", func(c echo.Context) error {
        return c.String(http.StatusOK, "a listing longer than eight bytes")
    }, rc.Middleware())

    first := do(e, http.MethodGet, "/events", nil)
    if first.Body.String() != "a listing longer than eight bytes" {
        t.Fatalf("client got a truncated body: %q", first.Body.String())
    }
    if keys := mr.Keys(); len(keys) != 0 {
        t.Fatalf("oversized response stored: %v", keys)
    }
    if rec := do(e, http.MethodGet, "/events", nil); rec.Header().Get("X-Cache") != "MISS" {
        t.Fatal("oversized response must not be served from cache")
    }
}
