package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/service"
)

// ReviewHandler accepts reviews from signed-in users.
type ReviewHandler struct {
    Reviews *repository.ReviewRepo
}

type createReviewReq struct {
    EventID     uint64  `json:"eventId" validate:"required"`
    Rating      int     `json:"rating"`
    Comment     *string `json:"comment" validate:"omitempty,max=2000"`
    IsAnonymous bool    `json:"isAnonymous"`
}

// Create handles POST /reviews.  The event's rating and review count are
// recomputed in the same transaction as the insert.  Reviewing the same
// event twice answers 200 with the review already on record.
func (h *ReviewHandler) Create(c echo.Context) error {
    uid, ok := currentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, errSignedOut)
    }
    var req createReviewReq
    if err := bindValid(c, &req); err != nil {
        return respondError(c, err)
    }
    if err := service.CheckRating(req.Rating); err != nil {
        return respondError(c, err)
    }
    if req.Comment != nil {
        trimmed := strings.TrimSpace(*req.Comment)
        if trimmed == "" {
            req.Comment = nil
        } else {
            req.Comment = &trimmed
        }
    }

    ctx, cancel := dbCtx(c)
    defer cancel()
    id, created, err := h.Reviews.CreateAndRecompute(ctx, model.Review{
        EventID:     req.EventID,
        UserID:      uid,
        Rating:      req.Rating,
        Comment:     req.Comment,
        IsAnonymous: req.IsAnonymous,
    })
    if err != nil {
        return respondError(c, err)
    }
    rv, err := h.Reviews.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    if !created {
        return c.JSON(http.StatusOK, echo.Map{"message": "Bu etkinliği zaten değerlendirdiniz", "data": rv})
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "Değerlendirmeniz kaydedildi", "data": rv})
}
