package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// Context keys written by JWTAuth.
const (
    ctxUserID = "user_id"
    ctxRole   = "role"
)

// UserID returns the authenticated subject stored by JWTAuth.  Admin tokens
// carry subject 0, which is reported as absent.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(ctxUserID).(uint64)
    return id, ok && id > 0
}

// Role returns the role claim stored by JWTAuth.
func Role(c echo.Context) string {
    r, _ := c.Get(ctxRole).(string)
    return r
}

// identityKey names the caller for rate limiting: the user id when signed
// in, the admin marker for admin tokens, and "anon" otherwise.
func identityKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    if r := Role(c); r != "" {
        return r
    }
    return "anon"
}
