// Package router defines how HTTP routes are registered for the API.
package router

import (
    "database/sql"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/edirne-events/events-api/internal/handler"
    "github.com/edirne-events/events-api/internal/middleware"
    "github.com/edirne-events/events-api/internal/utils"
)

// RegisterRoutes registers the liveness and readiness checks.
func RegisterRoutes(e *echo.Echo, db *sql.DB, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)
    e.GET("/readyz", handler.Ready(db, rdb))
}

// RegisterAuth registers site user auth.  Register, login, refresh and
// logout are open; /me requires a user token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
    g := e.Group("/auth", limit)
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    // Logout accepts either a refresh token in the body or a bearer token,
    // so it stays outside the JWT group.
    g.POST("/logout", a.Logout)

    e.GET("/me", a.Me, middleware.JWTAuth(jwtSecret), middleware.RequireRole(utils.RoleUser))
}

// RegisterPublic registers unauthenticated browse endpoints.  Responses are
// cached in redis when cache is enabled.  Middleware is attached per route:
// a root-level group would also catch unknown paths.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
    e.GET("/events", p.ListEvents, cache)
    e.GET("/events/nearby", p.NearbyEvents, cache)
    e.GET("/events/:id", p.GetEvent, cache)
    e.GET("/events/:id/reviews", p.ListEventReviews, cache)
    e.GET("/venues", p.ListVenues, cache)
    e.GET("/venues/:id", p.GetVenue, cache)
    e.GET("/categories", p.ListCategories, cache)
    e.GET("/venue-categories", p.ListVenueCategories, cache)
}

// RegisterSubmissions registers the public moderation intake.  Anyone may
// submit; the rate limiter keeps spam in check.
func RegisterSubmissions(e *echo.Echo, s *handler.SubmissionHandler, limit echo.MiddlewareFunc) {
    e.POST("/submit-event", s.SubmitEvent, limit)
    e.POST("/submit-venue", s.SubmitVenue, limit)
}
