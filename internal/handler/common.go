package handler // handler defines http handlers

import (
    "context"
    "errors"
    "log/slog"
    "net/http"
    "reflect"
    "strconv"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/middleware"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/service"
)

// dbTimeout bounds every handler's database work.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

func badID(c echo.Context) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": "Geçersiz kimlik"})
}

func badBody(c echo.Context) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": "Geçersiz istek gövdesi"})
}

var errSignedOut = echo.Map{"error": "Bu işlem için giriş yapmalısınız"}

// currentUser returns the signed-in site user's id.
func currentUser(c echo.Context) (uint64, bool) {
    return middleware.UserID(c)
}

// respondError maps service and repository errors to the HTTP taxonomy:
// validation 400, missing rows 404, uniqueness and reference conflicts 409,
// anything else 500 with a generic message (details go to the log only).
func respondError(c echo.Context, err error) error {
    var ve *service.ValidationError
    switch {
    case errors.As(err, &ve):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Message})
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Kayıt bulunamadı"})
    case errors.Is(err, repository.ErrInUse):
        return c.JSON(http.StatusConflict, echo.Map{"error": "Kayıt kullanımda olduğu için silinemez"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "Bu kayıt zaten mevcut"})
    case errors.Is(err, repository.ErrEmailExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "Bu e-posta adresi zaten kayıtlı"})
    case errors.Is(err, repository.ErrPhoneExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "Bu telefon numarası zaten kayıtlı"})
    case errors.Is(err, service.ErrVerificationUnavailable):
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Doğrulama servisi kullanılamıyor"})
    case errors.Is(err, context.DeadlineExceeded):
        slog.Error("request timed out", "request_id", c.Get("request_id"), "path", c.Path())
        return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "İstek zaman aşımına uğradı"})
    }
    slog.Error("request failed", "request_id", c.Get("request_id"), "path", c.Path(), "error", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Beklenmeyen bir hata oluştu"})
}

// RequestValidator plugs go-playground/validator into echo so handlers can
// call c.Validate on their DTOs.
type RequestValidator struct {
    v *validator.Validate
}

// NewRequestValidator returns a validator reporting JSON field names.
func NewRequestValidator() *RequestValidator {
    v := validator.New()
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    return &RequestValidator{v: v}
}

// Validate implements echo.Validator.  Failures come back as
// *service.ValidationError naming the first offending field.
func (rv *RequestValidator) Validate(i any) error {
    err := rv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if errors.As(err, &verrs) && len(verrs) > 0 {
        fe := verrs[0]
        switch fe.Tag() {
        case "required":
            return &service.ValidationError{Message: fe.Field() + " alanı zorunludur"}
        case "email":
            return &service.ValidationError{Message: "Geçerli bir e-posta adresi giriniz"}
        }
        return &service.ValidationError{Message: fe.Field() + " alanı geçersiz"}
    }
    return err
}

// bindValid binds the body into dst and runs the registered validator.
func bindValid(c echo.Context, dst any) error {
    if err := c.Bind(dst); err != nil {
        return &service.ValidationError{Message: "Geçersiz istek gövdesi"}
    }
    if c.Echo().Validator == nil {
        return nil
    }
    return c.Validate(dst)
}
