package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/service"
)

// SubmissionHandler serves the public submission forms.  Everything
// submitted here waits in the pending tables for an admin.
type SubmissionHandler struct {
    Intake *service.Intake
}

// SubmitEvent handles POST /submit-event.
func (h *SubmissionHandler) SubmitEvent(c echo.Context) error {
    var req service.EventSubmission
    if err := c.Bind(&req); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Intake.SubmitEvent(ctx, req)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "Etkinliğiniz alındı, onaylandıktan sonra yayınlanacaktır",
        "data":    p,
    })
}

// SubmitVenue handles POST /submit-venue.
func (h *SubmissionHandler) SubmitVenue(c echo.Context) error {
    var req service.VenueSubmission
    if err := c.Bind(&req); err != nil {
        return badBody(c)
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    p, err := h.Intake.SubmitVenue(ctx, req)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "Mekan öneriniz alındı, onaylandıktan sonra yayınlanacaktır",
        "data":    p,
    })
}
