package handler

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/service"
)

func TestRespondErrorStatuses(t *testing.T) {
    tests := []struct {
        err    error
        status int
    }{
        {&service.ValidationError{Message: "Etkinlik başlığı zorunludur"}, http.StatusBadRequest},
        {fmt.Errorf("approve: %w", repository.ErrNotFound), http.StatusNotFound},
        {repository.ErrInUse, http.StatusConflict},
        {repository.ErrConflict, http.StatusConflict},
        {repository.ErrEmailExists, http.StatusConflict},
        {repository.ErrPhoneExists, http.StatusConflict},
        {service.ErrVerificationUnavailable, http.StatusServiceUnavailable},
        {context.DeadlineExceeded, http.StatusGatewayTimeout},
        {errors.New("connection refused"), http.StatusInternalServerError},
    }
    e := echo.New()
    for _, tt := range tests {
        rec := httptest.NewRecorder()
        c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
        if err := respondError(c, tt.err); err != nil {
            t.Fatalf("respondError returned %v", err)
        }
        if rec.Code != tt.status {
            t.Errorf("%v -> %d, want %d", tt.err, rec.Code, tt.status)
        }
    }
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
    _ = respondError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
    if strings.Contains(rec.Body.String(), "10.0.0.5") {
        t.Fatalf("internal error leaked: %s", rec.Body.String())
    }
}

func TestRequestValidatorMessages(t *testing.T) {
    type body struct {
        Name  string `json:"name" validate:"required"`
        Email string `json:"email" validate:"omitempty,email"`
        Code  string `json:"code" validate:"omitempty,len=6"`
    }
    v := NewRequestValidator()
    tests := []struct {
        in   body
        want string
    }{
        {body{}, "name alanı zorunludur"},
        {body{Name: "a", Email: "x"}, "Geçerli bir e-posta adresi giriniz"},
        {body{Name: "a", Code: "12"}, "code alanı geçersiz"},
        {body{Name: "a", Email: "a@b.co", Code: "123456"}, ""},
    }
    for _, tt := range tests {
        err := v.Validate(tt.in)
        if tt.want == "" {
            if err != nil {
                t.Errorf("Validate(%+v) = %v", tt.in, err)
            }
            continue
        }
        var ve *service.ValidationError
        if !errors.As(err, &ve) || ve.Message != tt.want {
            t.Errorf("Validate(%+v) = %v, want %q", tt.in, err, tt.want)
        }
    }
}
