package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/service"
)

// AdminHandler serves the admin panel's CRUD screens for live data.
type AdminHandler struct {
    Events          *repository.EventRepo
    Venues          *repository.VenueRepo
    Categories      *repository.CategoryRepo
    VenueCategories *repository.CategoryRepo
    Users           *repository.UserRepo
    Tokens          *repository.TokenRepo
    Reviews         *repository.ReviewRepo
    Catalog         *service.Catalog
}

type flagReq struct {
    Value *bool `json:"value" validate:"required"`
}

// ----- events -----

// ListEvents handles GET /admin/events; inactive events are included.
func (h *AdminHandler) ListEvents(c echo.Context) error {
    f, err := eventFilterFrom(c)
    if err != nil {
        return respondError(c, err)
    }
    f.IncludeInactive = true
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, total, err := h.Events.List(ctx, f)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items, "total": total, "page": f.Page, "page_size": f.PageSize})
}

// UpdateEvent handles PUT /admin/events/:id with a partial body.
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var d model.EventDraft
    if err := c.Bind(&d); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    e, err := h.Catalog.UpdateEvent(ctx, id, d)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// DeleteEvent handles DELETE /admin/events/:id.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Events.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// SetEventFeatured handles PATCH /admin/events/:id/featured {value}.
func (h *AdminHandler) SetEventFeatured(c echo.Context) error {
    return h.setEventFlag(c, h.Events.SetFeatured)
}

// SetEventActive handles PATCH /admin/events/:id/active {value}.
func (h *AdminHandler) SetEventActive(c echo.Context) error {
    return h.setEventFlag(c, h.Events.SetActive)
}

func (h *AdminHandler) setEventFlag(c echo.Context, set func(ctx context.Context, id uint64, v bool) error) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var req flagReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := set(ctx, id, *req.Value); err != nil {
        return respondError(c, err)
    }
    e, err := h.Events.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, e)
}

// ----- venues -----

// ListVenues handles GET /admin/venues; inactive venues are included.
func (h *AdminHandler) ListVenues(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Venues.List(ctx, repository.VenueFilter{
        Query:           strings.TrimSpace(c.QueryParam("q")),
        IncludeInactive: true,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// CreateVenue handles POST /admin/venues.
func (h *AdminHandler) CreateVenue(c echo.Context) error {
    var d model.VenueDraft
    if err := c.Bind(&d); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    v, err := h.Catalog.CreateVenue(ctx, d)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, v)
}

// UpdateVenue handles PUT /admin/venues/:id with a partial body.
func (h *AdminHandler) UpdateVenue(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var d model.VenueDraft
    if err := c.Bind(&d); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    v, err := h.Catalog.UpdateVenue(ctx, id, d)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, v)
}

// DeleteVenue handles DELETE /admin/venues/:id.
func (h *AdminHandler) DeleteVenue(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Venues.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- categories -----

type categoryReq struct {
    Name        string  `json:"name" validate:"required,max=64"`
    DisplayName string  `json:"displayName" validate:"required,max=128"`
    Color       *string `json:"color" validate:"omitempty,max=16"`
    Icon        *string `json:"icon" validate:"omitempty,max=64"`
    SortOrder   int     `json:"sortOrder"`
    IsActive    *bool   `json:"isActive"`
}

func (r categoryReq) toModel(id uint64) model.Category {
    active := true
    if r.IsActive != nil {
        active = *r.IsActive
    }
    return model.Category{
        ID:          id,
        Name:        strings.TrimSpace(r.Name),
        DisplayName: strings.TrimSpace(r.DisplayName),
        Color:       r.Color,
        Icon:        r.Icon,
        SortOrder:   r.SortOrder,
        IsActive:    active,
    }
}

// ListCategories handles GET /admin/categories.
func (h *AdminHandler) ListCategories(c echo.Context) error {
    return listCategories(c, h.Categories, false)
}

// CreateCategory handles POST /admin/categories.
func (h *AdminHandler) CreateCategory(c echo.Context) error {
    return createCategory(c, h.Categories)
}

// UpdateCategory handles PUT /admin/categories/:id.
func (h *AdminHandler) UpdateCategory(c echo.Context) error {
    return updateCategory(c, h.Categories)
}

// DeleteCategory handles DELETE /admin/categories/:id.
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
    return deleteCategory(c, h.Categories)
}

// ListVenueCategories handles GET /admin/venue-categories.
func (h *AdminHandler) ListVenueCategories(c echo.Context) error {
    return listCategories(c, h.VenueCategories, false)
}

// CreateVenueCategory handles POST /admin/venue-categories.
func (h *AdminHandler) CreateVenueCategory(c echo.Context) error {
    return createCategory(c, h.VenueCategories)
}

// UpdateVenueCategory handles PUT /admin/venue-categories/:id.
func (h *AdminHandler) UpdateVenueCategory(c echo.Context) error {
    return updateCategory(c, h.VenueCategories)
}

// DeleteVenueCategory handles DELETE /admin/venue-categories/:id.  It is
// refused with 409 while any venue still uses the category.
func (h *AdminHandler) DeleteVenueCategory(c echo.Context) error {
    return deleteCategory(c, h.VenueCategories)
}

func createCategory(c echo.Context, repo *repository.CategoryRepo) error {
    var req categoryReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    id, err := repo.Create(ctx, req.toModel(0))
    if err != nil {
        return respondError(c, err)
    }
    cat, err := repo.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, cat)
}

func updateCategory(c echo.Context, repo *repository.CategoryRepo) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var req categoryReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := repo.Update(ctx, req.toModel(id)); err != nil {
        return respondError(c, err)
    }
    cat, err := repo.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, cat)
}

func deleteCategory(c echo.Context, repo *repository.CategoryRepo) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := repo.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- users -----

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    items, err := h.Users.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// SetUserActive handles PATCH /admin/users/:id/active {value}.  Turning a
// user off also signs them out everywhere.
func (h *AdminHandler) SetUserActive(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var req flagReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Users.SetActive(ctx, id, *req.Value); err != nil {
        return respondError(c, err)
    }
    if !*req.Value && h.Tokens != nil {
        if err := h.Tokens.RevokeUser(ctx, id); err != nil {
            return respondError(c, err)
        }
    }
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Users.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- reviews and stats -----

// SetReviewApproval handles PATCH /admin/reviews/:id/approval {value}.  The
// event's rating is recomputed in the same transaction.
func (h *AdminHandler) SetReviewApproval(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badID(c)
    }
    var req flagReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Reviews.SetApproval(ctx, id, *req.Value); err != nil {
        return respondError(c, err)
    }
    rv, err := h.Reviews.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, rv)
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    counts, err := h.Events.Counts(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, counts)
}
