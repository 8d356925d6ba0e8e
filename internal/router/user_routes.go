package router

import (
    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/handler"
    "github.com/edirne-events/events-api/internal/middleware"
    "github.com/edirne-events/events-api/internal/utils"
)

// RegisterUser registers endpoints for signed-in site users: reviews and
// favorites.  All routes require a valid JWT with the USER role.  A new
// review changes an event's rating, so it also busts the public cache.
func RegisterUser(e *echo.Echo, r *handler.ReviewHandler, f *handler.FavoriteHandler, jwtSecret string, limit, bust echo.MiddlewareFunc) {
    signedIn := []echo.MiddlewareFunc{
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(utils.RoleUser),
    }
    limited := append(append([]echo.MiddlewareFunc{}, signedIn...), limit)

    e.POST("/reviews", r.Create, append(limited, bust)...)

    e.GET("/favorites", f.List, signedIn...)
    e.GET("/favorites/check", f.Check, signedIn...)
    e.POST("/favorites", f.Add, limited...)
    e.DELETE("/favorites", f.Remove, signedIn...)
}
