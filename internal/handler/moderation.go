package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/service"
)

// ModerationHandler serves the admin side of the submission workflow and
// the expiration sweep.
type ModerationHandler struct {
    Moderation *service.Moderation
    Sweeper    *service.Sweeper
}

// approveEventReq is the body of POST /admin/approve-event: the pending id
// plus any field overrides.
type approveEventReq struct {
    ID uint64 `json:"id"`
    model.EventDraft
}

// ApproveEvent handles POST /admin/approve-event.
func (h *ModerationHandler) ApproveEvent(c echo.Context) error {
    var req approveEventReq
    if err := c.Bind(&req); err != nil {
        return badBody(c)
    }
    if req.ID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "id alanı zorunludur"})
    }
    return h.approveEvent(c, req.ID, req.EventDraft)
}

// ApprovePendingEvent handles POST /admin/pending-events/:id/approve.  The
// body is optional.
func (h *ModerationHandler) ApprovePendingEvent(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var d model.EventDraft
    if err := c.Bind(&d); err != nil {
        return badBody(c)
    }
    return h.approveEvent(c, id, d)
}

func (h *ModerationHandler) approveEvent(c echo.Context, id uint64, d model.EventDraft) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    e, err := h.Moderation.ApproveEvent(ctx, id, d)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Etkinlik onaylandı", "data": e})
}

// ListPendingEvents handles GET /admin/pending-events.
func (h *ModerationHandler) ListPendingEvents(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Moderation.ListPendingEvents(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// GetPendingEvent handles GET /admin/pending-events/:id.
func (h *ModerationHandler) GetPendingEvent(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Moderation.GetPendingEvent(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// UpdatePendingEvent handles PUT /admin/pending-events/:id.
func (h *ModerationHandler) UpdatePendingEvent(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var d model.EventDraft
    if err := c.Bind(&d); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Moderation.UpdatePendingEvent(ctx, id, d)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// RejectPendingEvent handles DELETE /admin/pending-events/:id.
func (h *ModerationHandler) RejectPendingEvent(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Moderation.RejectEvent(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Etkinlik reddedildi", "data": p})
}

// ListPendingVenues handles GET /admin/pending-venues.
func (h *ModerationHandler) ListPendingVenues(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Moderation.ListPendingVenues(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// GetPendingVenue handles GET /admin/pending-venues/:id.
func (h *ModerationHandler) GetPendingVenue(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Moderation.GetPendingVenue(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// UpdatePendingVenue handles PUT /admin/pending-venues/:id.
func (h *ModerationHandler) UpdatePendingVenue(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var d model.VenueDraft
    if err := c.Bind(&d); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Moderation.UpdatePendingVenue(ctx, id, d)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// ApprovePendingVenue handles POST /admin/pending-venues/:id/approve.
func (h *ModerationHandler) ApprovePendingVenue(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var d model.VenueDraft
    if err := c.Bind(&d); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    v, err := h.Moderation.ApproveVenue(ctx, id, d)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Mekan onaylandı", "data": v})
}

// RejectPendingVenue handles DELETE /admin/pending-venues/:id.
func (h *ModerationHandler) RejectPendingVenue(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Moderation.RejectVenue(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Mekan reddedildi", "data": p})
}

// ListExpired handles GET /admin/expired-events.
func (h *ModerationHandler) ListExpired(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Sweeper.ListExpired(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items, "count": len(items)})
}

// RunSweep handles POST /admin/expired-events.
func (h *ModerationHandler) RunSweep(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    n, err := h.Sweeper.Run(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Süresi dolan etkinlikler pasifleştirildi", "deactivated": n})
}
