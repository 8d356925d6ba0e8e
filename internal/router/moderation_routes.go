package router

import (
    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/handler"
    "github.com/edirne-events/events-api/internal/middleware"
    "github.com/edirne-events/events-api/internal/utils"
)

// RegisterModeration registers the pending-submission queue and the expiry
// sweep under /admin.  Approve and reject honour an Idempotency-Key header
// so a retried click replays the first answer instead of failing with 404.
func RegisterModeration(e *echo.Echo, h *handler.ModerationHandler, jwtSecret string, idem, bust echo.MiddlewareFunc) {
    g := e.Group(
        "/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(utils.RoleAdmin),
        bust,
    )

    g.POST("/approve-event", h.ApproveEvent, idem)

    g.GET("/pending-events", h.ListPendingEvents)
    g.GET("/pending-events/:id", h.GetPendingEvent)
    g.PUT("/pending-events/:id", h.UpdatePendingEvent)
    g.DELETE("/pending-events/:id", h.RejectPendingEvent, idem)
    g.POST("/pending-events/:id/approve", h.ApprovePendingEvent, idem)

    g.GET("/pending-venues", h.ListPendingVenues)
    g.GET("/pending-venues/:id", h.GetPendingVenue)
    g.PUT("/pending-venues/:id", h.UpdatePendingVenue)
    g.DELETE("/pending-venues/:id", h.RejectPendingVenue, idem)
    g.POST("/pending-venues/:id/approve", h.ApprovePendingVenue, idem)

    g.GET("/expired-events", h.ListExpired)
    g.POST("/expired-events", h.RunSweep, idem)
}
