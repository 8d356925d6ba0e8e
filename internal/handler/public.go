// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines the public browsing API: active events, venues,
// categories and approved reviews.  No authentication is required.

package handler

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/service"
)

const maxPageSize = 100

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
    Events          *repository.EventRepo
    Venues          *repository.VenueRepo
    Categories      *repository.CategoryRepo
    VenueCategories *repository.CategoryRepo
    Reviews         *repository.ReviewRepo
    Catalog         *service.Catalog
    Loc             *time.Location
}

// eventDetail adds the computed expiry flag to a single event response.
type eventDetail struct {
    model.Event
    IsExpired bool `json:"isExpired"`
}

// pageParams reads page/page_size with the defaults used by every list.
func pageParams(c echo.Context) (int, int) {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    if page < 1 {
        page = 1
    }
    ps, _ := strconv.Atoi(c.QueryParam("page_size"))
    if ps <= 0 {
        ps = 20
    }
    if ps > maxPageSize {
        ps = maxPageSize
    }
    return page, ps
}

// eventFilterFrom parses the listing query string shared by the public and
// admin event lists.
func eventFilterFrom(c echo.Context) (repository.EventFilter, error) {
    page, ps := pageParams(c)
    f := repository.EventFilter{
        Query:    strings.TrimSpace(c.QueryParam("q")),
        Page:     page,
        PageSize: ps,
    }
    if v := c.QueryParam("category"); v != "" {
        id, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return f, &service.ValidationError{Message: "Geçersiz kategori"}
        }
        f.CategoryID = id
    }
    if v := c.QueryParam("featured"); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return f, &service.ValidationError{Message: "Geçersiz featured değeri"}
        }
        f.FeaturedOnly = b
    }
    for _, p := range []struct {
        name string
        dst  *string
    }{{"from", &f.From}, {"to", &f.To}} {
        if v := c.QueryParam(p.name); v != "" {
            d, err := service.ParseDate(v)
            if err != nil {
                return f, err
            }
            *p.dst = d
        }
    }
    return f, nil
}

// ListEvents handles GET /events.
func (h *PublicHandler) ListEvents(c echo.Context) error {
    f, err := eventFilterFrom(c)
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, total, err := h.Events.List(ctx, f)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "data":      items,
        "total":     total,
        "page":      f.Page,
        "page_size": f.PageSize,
    })
}

// GetEvent handles GET /events/:id.  Inactive events are hidden.
func (h *PublicHandler) GetEvent(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    e, err := h.Events.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    if !e.IsActive {
        return respondError(c, repository.ErrNotFound)
    }
    return c.JSON(http.StatusOK, eventDetail{Event: *e, IsExpired: service.IsExpired(e.EventFields, time.Now(), h.Loc)})
}

// NearbyEvents handles GET /events/nearby?lat=&lng=&radius_km=.
func (h *PublicHandler) NearbyEvents(c echo.Context) error {
    lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
    lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
    if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Geçerli lat ve lng değerleri gereklidir"})
    }
    radius := service.DefaultNearbyRadiusKm
    if v := c.QueryParam("radius_km"); v != "" {
        r, err := strconv.ParseFloat(v, 64)
        if err != nil || r <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "Geçersiz yarıçap"})
        }
        radius = r
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Catalog.Nearby(ctx, lat, lng, radius)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items, "radius_km": radius})
}

// ListVenues handles GET /venues.
func (h *PublicHandler) ListVenues(c echo.Context) error {
    f := repository.VenueFilter{Query: strings.TrimSpace(c.QueryParam("q"))}
    if v := c.QueryParam("category"); v != "" {
        id, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "Geçersiz kategori"})
        }
        f.CategoryID = id
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Venues.List(ctx, f)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// GetVenue handles GET /venues/:id.
func (h *PublicHandler) GetVenue(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    v, err := h.Venues.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    if !v.IsActive {
        return respondError(c, repository.ErrNotFound)
    }
    return c.JSON(http.StatusOK, v)
}

// ListCategories handles GET /categories (active only).
func (h *PublicHandler) ListCategories(c echo.Context) error {
    return listCategories(c, h.Categories, true)
}

// ListVenueCategories handles GET /venue-categories (active only).
func (h *PublicHandler) ListVenueCategories(c echo.Context) error {
    return listCategories(c, h.VenueCategories, true)
}

func listCategories(c echo.Context, repo *repository.CategoryRepo, activeOnly bool) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := repo.List(ctx, activeOnly)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// ListEventReviews handles GET /events/:id/reviews.
func (h *PublicHandler) ListEventReviews(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Reviews.ListApprovedByEvent(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items})
}
