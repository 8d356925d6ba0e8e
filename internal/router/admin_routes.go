package router

import (
    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/handler"
    "github.com/edirne-events/events-api/internal/middleware"
    "github.com/edirne-events/events-api/internal/utils"
)

// RegisterAdminAuth registers the admin password login and the e-mail
// verification code flow.  These routes are reachable without a token.
func RegisterAdminAuth(e *echo.Echo, a *handler.AdminAuthHandler, limit echo.MiddlewareFunc) {
    e.POST("/admin/login", a.Login, limit)
    e.POST("/admin/verification/request", a.RequestCode, limit)
    e.POST("/admin/verification/confirm", a.ConfirmCode, limit)
}

// RegisterAdmin registers ADMIN-scoped CRUD endpoints under /admin.  bust
// runs after every successful write so public listings refresh at once.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, bust echo.MiddlewareFunc) {
    g := e.Group(
        "/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(utils.RoleAdmin),
        bust,
    )

    // ---- Events ----
    g.GET("/events", h.ListEvents)
    g.PUT("/events/:id", h.UpdateEvent)
    g.DELETE("/events/:id", h.DeleteEvent)
    g.PATCH("/events/:id/featured", h.SetEventFeatured)
    g.PATCH("/events/:id/active", h.SetEventActive)

    // ---- Venues ----
    g.GET("/venues", h.ListVenues)
    g.POST("/venues", h.CreateVenue)
    g.PUT("/venues/:id", h.UpdateVenue)
    g.DELETE("/venues/:id", h.DeleteVenue)

    // ---- Categories ----
    g.GET("/categories", h.ListCategories)
    g.POST("/categories", h.CreateCategory)
    g.PUT("/categories/:id", h.UpdateCategory)
    g.DELETE("/categories/:id", h.DeleteCategory)

    g.GET("/venue-categories", h.ListVenueCategories)
    g.POST("/venue-categories", h.CreateVenueCategory)
    g.PUT("/venue-categories/:id", h.UpdateVenueCategory)
    g.DELETE("/venue-categories/:id", h.DeleteVenueCategory)

    // ---- Users ----
    g.GET("/users", h.ListUsers)
    g.PATCH("/users/:id/active", h.SetUserActive)
    g.DELETE("/users/:id", h.DeleteUser)

    // ---- Reviews / stats ----
    g.PATCH("/reviews/:id/approval", h.SetReviewApproval)
    g.GET("/stats", h.Stats)
}
