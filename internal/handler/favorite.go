package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/repository"
)

// FavoriteHandler manages the caller's bookmarked events.
type FavoriteHandler struct {
    Favorites *repository.FavoriteRepo
}

type favoriteReq struct {
    EventID uint64 `json:"eventId"`
}

// eventIDFrom reads eventId from the JSON body or, failing that, from the
// query string (DELETE bodies are dropped by some clients).
func eventIDFrom(c echo.Context) (uint64, bool) {
    var req favoriteReq
    if err := c.Bind(&req); err == nil && req.EventID > 0 {
        return req.EventID, true
    }
    id, err := strconv.ParseUint(c.QueryParam("eventId"), 10, 64)
    return id, err == nil && id > 0
}

// Add handles POST /favorites.  Adding an existing favorite is not an
// error: it answers 200 instead of 201.
func (h *FavoriteHandler) Add(c echo.Context) error {
    uid, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, errSignedOut)
    }
    eventID, ok := eventIDFrom(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventId zorunludur"})
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    created, err := h.Favorites.Add(ctx, uid, eventID)
    if err != nil {
        return respondError(c, err)
    }
    status := http.StatusOK
    if created {
        status = http.StatusCreated
    }
    return c.JSON(status, echo.Map{"eventId": eventID, "isFavorite": true})
}

// Remove handles DELETE /favorites.
func (h *FavoriteHandler) Remove(c echo.Context) error {
    uid, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, errSignedOut)
    }
    eventID, ok := eventIDFrom(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventId zorunludur"})
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Favorites.Remove(ctx, uid, eventID); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"eventId": eventID, "isFavorite": false})
}

// List handles GET /favorites.
func (h *FavoriteHandler) List(c echo.Context) error {
    uid, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, errSignedOut)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Favorites.ListEvents(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items, "total": len(items)})
}

// Check handles GET /favorites/check?eventId=.
func (h *FavoriteHandler) Check(c echo.Context) error {
    uid, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, errSignedOut)
    }
    eventID, err := strconv.ParseUint(c.QueryParam("eventId"), 10, 64)
    if err != nil || eventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventId zorunludur"})
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    fav, err := h.Favorites.Exists(ctx, uid, eventID)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"isFavorite": fav})
}
