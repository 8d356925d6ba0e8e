package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
)

func countingHandler(calls *int, status int) echo.HandlerFunc {
    return func(c echo.Context) error {
        *calls++
        return c.JSON(status, echo.Map{"call": *calls})
    }
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
    rdb, _ := newRedis(t)
    e := echo.New()
    calls := 0
    e.POST("/admin/pending-events/:id/approve", countingHandler(&calls, http.StatusCreated), Idempotency(rdb, time.Hour))

    hdr := map[string]string{IdempotencyHeader: "abc"}
    first := do(e, http.MethodPost, "/admin/pending-events/7/approve", hdr)
    expectStatus(t, first, http.StatusCreated)
    second := do(e, http.MethodPost, "/admin/pending-events/7/approve", hdr)
    expectStatus(t, second, http.StatusCreated)

    if calls != 1 {
        t.Fatalf("handler ran %d times, want 1", calls)
    }
    if second.Header().Get("Idempotent-Replayed") != "true" {
        t.Fatal("replayed response not marked")
    }
    if strings.TrimSpace(second.Body.String()) != strings.TrimSpace(first.Body.String()) {
        t.Fatalf("replayed body %q differs from %q", second.Body.String(), first.Body.String())
    }

    // Same key on another pending id is a different operation.
    expectStatus(t, do(e, http.MethodPost, "/admin/pending-events/8/approve", hdr), http.StatusCreated)
    if calls != 2 {
        t.Fatalf("handler ran %d times, want 2", calls)
    }
}

func TestIdempotencyWithoutKeyAlwaysRuns(t *testing.T) {
    rdb, _ := newRedis(t)
    e := echo.New()
    calls := 0
    e.POST("/admin/sweep", countingHandler(&calls, http.StatusOK), Idempotency(rdb, time.Hour))

    do(e, http.MethodPost, "/admin/sweep", nil)
    do(e, http.MethodPost, "/admin/sweep", nil)
    if calls != 2 {
        t.Fatalf("handler ran %d times, want 2", calls)
    }
}

func TestIdempotencyDoesNotKeepServerErrors(t *testing.T) {
    rdb, mr := newRedis(t)
    e := echo.New()
    calls := 0
    e.POST("/admin/sweep", countingHandler(&calls, http.StatusInternalServerError), Idempotency(rdb, time.Hour))

    hdr := map[string]string{IdempotencyHeader: "retry-me"}
    expectStatus(t, do(e, http.MethodPost, "/admin/sweep", hdr), http.StatusInternalServerError)
    expectStatus(t, do(e, http.MethodPost, "/admin/sweep", hdr), http.StatusInternalServerError)
    if calls != 2 {
        t.Fatalf("handler ran %d times, want 2", calls)
    }
    if keys := mr.Keys(); len(keys) != 0 {
        t.Fatalf("server error left keys behind: %v", keys)
    }
}

func TestIdempotencyInFlightConflict(t *testing.T) {
    rdb, mr := newRedis(t)
    e := echo.New()
    calls := 0
    e.POST("/admin/sweep", countingHandler(&calls, http.StatusOK), Idempotency(rdb, time.Hour))

    req := httptest.NewRequest(http.MethodPost, "/admin/sweep", nil)
    key := idempotencyKey(e.NewContext(req, httptest.NewRecorder()), "busy")
    if err := mr.Set(key, inFlightMarker); err != nil {
        t.Fatal(err)
    }

    expectStatus(t, do(e, http.MethodPost, "/admin/sweep", map[string]string{IdempotencyHeader: "busy"}), http.StatusConflict)
    if calls != 0 {
        t.Fatalf("handler ran %d times while the key was in flight", calls)
    }
}

func TestIdempotencyNilClientPassesThrough(t *testing.T) {
    e := echo.New()
    calls := 0
    e.POST("/admin/sweep", countingHandler(&calls, http.StatusOK), Idempotency(nil, time.Hour))
    hdr := map[string]string{IdempotencyHeader: "k"}
    do(e, http.MethodPost, "/admin/sweep", hdr)
    do(e, http.MethodPost, "/admin/sweep", hdr)
    if calls != 2 {
        t.Fatalf("handler ran %d times, want 2", calls)
    }
}
