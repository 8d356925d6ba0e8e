package handler

import (
    "errors"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/config"
    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/utils"
)

// AuthHandler bundles dependencies for site user auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
    Name     string `json:"name" validate:"required,max=255"`
    Email    string `json:"email" validate:"required,email"`
    Phone    string `json:"phone" validate:"required"`
    Password string `json:"password" validate:"required,min=6"`
}
type loginReq struct {
    // Identifier is an email address or a phone number in any common spelling.
    Identifier string `json:"identifier" validate:"required"`
    Password   string `json:"password" validate:"required"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type authResp struct {
    User    model.User `json:"user"`
    Access  tokenPart  `json:"access"`
    Refresh tokenPart  `json:"refresh"`
}

var (
    errBadCredentials = echo.Map{"error": "E-posta/telefon veya şifre hatalı"}
    errInactive       = echo.Map{"error": "Hesabınız devre dışı bırakılmış"}
    errSessionEnded   = echo.Map{"error": "Oturum geçersiz, lütfen tekrar giriş yapın"}
)

// Register creates a user and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    if !utils.ValidPhone(req.Phone) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Geçerli bir telefon numarası giriniz"})
    }

    ctx, cancel := dbCtx(c)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Phone, req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return respondError(c, err)
    }
    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    resp, err := h.issue(c, u)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, resp)
}

// Login verifies the identifier/password pair and returns a new token pair.
// Unknown users, wrong passwords and deactivated accounts all answer 401.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }

    ctx, cancel := dbCtx(c)
    defer cancel()

    u, err := h.Users.GetByIdentifier(ctx, req.Identifier)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusUnauthorized, errBadCredentials)
        }
        return respondError(c, err)
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, errBadCredentials)
    }
    if !u.IsActive {
        return c.JSON(http.StatusUnauthorized, errInactive)
    }
    resp, err := h.issue(c, u)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

// Refresh spends a refresh token and issues a new pair.  Presenting a
// token that was already spent revokes every session of its owner.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token zorunludur"})
    }

    ctx, cancel := dbCtx(c)
    defer cancel()

    userID, err := h.Tokens.Consume(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken)))
    switch {
    case errors.Is(err, repository.ErrTokenReused):
        slog.Warn("refresh token reuse; sessions revoked", "request_id", c.Response().Header().Get(echo.HeaderXRequestID))
        return c.JSON(http.StatusUnauthorized, errSessionEnded)
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusUnauthorized, errSessionEnded)
    case err != nil:
        return respondError(c, err)
    }
    u, err := h.Users.GetByID(ctx, userID)
    if errors.Is(err, repository.ErrNotFound) {
        return c.JSON(http.StatusUnauthorized, errSessionEnded)
    }
    if err != nil {
        return respondError(c, err)
    }
    if !u.IsActive {
        return c.JSON(http.StatusUnauthorized, errInactive)
    }
    resp, err := h.issue(c, u)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, resp)
}

// Logout revokes one session when a refresh token is posted, or every
// session of the bearer when the body carries none.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    _ = c.Bind(&req)

    ctx, cancel := dbCtx(c)
    defer cancel()

    if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
        if err := h.Tokens.Revoke(ctx, utils.HashRefreshRaw(raw)); err != nil {
            if errors.Is(err, repository.ErrNotFound) {
                return c.JSON(http.StatusUnauthorized, errSessionEnded)
            }
            return respondError(c, err)
        }
        return c.NoContent(http.StatusNoContent)
    }

    raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token veya Authorization başlığı gerekli"})
    }
    claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimSpace(raw))
    if err != nil || claims.UserID == 0 {
        return c.JSON(http.StatusUnauthorized, errSessionEnded)
    }
    if err := h.Tokens.RevokeUser(ctx, claims.UserID); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, errSignedOut)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

// issue creates an access/refresh pair for u and persists the refresh hash.
func (h *AuthHandler) issue(c echo.Context, u model.User) (authResp, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, utils.RoleUser, h.Cfg.AccessTTLMin)
    if err != nil {
        return authResp{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return authResp{}, err
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Tokens.Store(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return authResp{}, err
    }
    return authResp{
        User:    u,
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
    }, nil
}
