package middleware

import (
    "log/slog"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID adds a unique request ID to each request, reusing the caller's
// X-Request-ID when present.
func RequestID() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id := c.Request().Header.Get(RequestIDHeader)
            if id == "" {
                id = uuid.New().String()
            }
            c.Set("request_id", id)
            c.Response().Header().Set(RequestIDHeader, id)
            return next(c)
        }
    }
}

// StructuredLogger logs one line per request after the handler finished.
func StructuredLogger(logger *slog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // Let echo render the error now so the logged status is final.
                c.Error(err)
            }

            req := c.Request()
            path := req.URL.Path
            if req.URL.RawQuery != "" {
                path += "?" + req.URL.RawQuery
            }
            attrs := []any{
                "request_id", c.Get("request_id"),
                "method", req.Method,
                "path", path,
                "status", c.Response().Status,
                "latency", time.Since(start),
                "client_ip", c.RealIP(),
            }
            if err != nil {
                logger.Error("HTTP Request", append(attrs, "error", err.Error())...)
                return nil
            }
            logger.Info("HTTP Request", attrs...)
            return nil
        }
    }
}
