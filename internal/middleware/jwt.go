package middleware

import (
    "errors"
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/utils"
)

const bearerPrefix = "Bearer "

// JWTAuth validates the bearer access token and stores its subject and role
// for UserID(c) and Role(c).  An expired token gets its own message so
// clients know to refresh instead of signing in again.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix)
            if !ok || strings.TrimSpace(raw) == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Oturum açmanız gerekiyor"})
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
            switch {
            case errors.Is(err, jwt.ErrTokenExpired):
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Oturum süresi doldu"})
            case err != nil:
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Geçersiz oturum"})
            }
            c.Set(ctxUserID, claims.UserID)
            c.Set(ctxRole, claims.Role)
            return next(c)
        }
    }
}

// RequireRole answers 403 unless JWTAuth stored one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role := Role(c)
            for _, r := range roles {
                if r == role {
                    return next(c)
                }
            }
            return c.JSON(http.StatusForbidden, echo.Map{"error": "Bu işlem için yetkiniz yok"})
        }
    }
}
