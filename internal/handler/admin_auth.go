package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/config"
    "github.com/edirne-events/events-api/internal/service"
    "github.com/edirne-events/events-api/internal/utils"
)

// AdminAuthHandler signs the admin panel in and runs the e-mail
// verification code flow.
type AdminAuthHandler struct {
    Cfg    config.Config
    Verify *service.VerificationStore
}

type adminLoginReq struct {
    Password string `json:"password" validate:"required"`
}

type verifyRequestReq struct {
    Email string `json:"email" validate:"required,email"`
}

type verifyConfirmReq struct {
    Email string `json:"email" validate:"required,email"`
    Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Login handles POST /admin/login.  The password is compared in constant
// time against ADMIN_PASSWORD; the issued token has role ADMIN and no user.
func (h *AdminAuthHandler) Login(c echo.Context) error {
    var req adminLoginReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    if !utils.SecretEqual(h.Cfg.AdminPassword, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Geçersiz şifre"})
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, 0, utils.RoleAdmin, h.Cfg.AccessTTLMin)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access": tokenPart{Token: access.Token, Expires: access.Exp},
        "role":   utils.RoleAdmin,
    })
}

// RequestCode handles POST /admin/verification/request.  Outside
// production the code is echoed back so the flow can be tried without mail.
func (h *AdminAuthHandler) RequestCode(c echo.Context) error {
    var req verifyRequestReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    code, exp, err := h.Verify.Request(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
    if err != nil {
        return respondError(c, err)
    }
    resp := echo.Map{"message": "Doğrulama kodu gönderildi", "expiresAt": exp}
    if !h.Cfg.IsProduction() {
        resp["code"] = code
    }
    return c.JSON(http.StatusOK, resp)
}

// ConfirmCode handles POST /admin/verification/confirm.  A code is accepted
// at most once.
func (h *AdminAuthHandler) ConfirmCode(c echo.Context) error {
    var req verifyConfirmReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    ok, err := h.Verify.Confirm(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Code)
    if err != nil {
        return respondError(c, err)
    }
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Doğrulama kodu geçersiz veya süresi dolmuş"})
    }
    return c.JSON(http.StatusOK, echo.Map{"verified": true})
}
