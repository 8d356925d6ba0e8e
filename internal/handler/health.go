package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// Health is the liveness check used by load balancers.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Ready reports whether the database answers a ping.  Redis is optional:
// its state is reported but never fails the check.
func Ready(db *sql.DB, rdb *redis.Client) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        status := echo.Map{"database": "ok", "redis": "disabled"}
        if rdb != nil {
            status["redis"] = "ok"
            if err := rdb.Ping(ctx).Err(); err != nil {
                status["redis"] = "unavailable"
            }
        }
        if err := db.PingContext(ctx); err != nil {
            status["database"] = "unavailable"
            return c.JSON(http.StatusServiceUnavailable, status)
        }
        return c.JSON(http.StatusOK, status)
    }
}
