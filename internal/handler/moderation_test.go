package handler

import (
    "net/http"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/service"
)

func moderationServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
    db, mock := newMockDB(t)
    h := &ModerationHandler{Moderation: service.NewModeration(db,
        repository.NewEventRepo(db), repository.NewPendingEventRepo(db),
        repository.NewVenueRepo(db), repository.NewPendingVenueRepo(db), nil, nil)}
    e := echo.New()
    e.POST("/admin/approve-event", h.ApproveEvent)
    e.POST("/admin/pending-events/:id/approve", h.ApprovePendingEvent)
    return e, mock
}

func TestApproveEventNeedsID(t *testing.T) {
    e, mock := moderationServer(t)
    rec := postJSON(e, "/admin/approve-event", `{"title":"x"}`, nil)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d", rec.Code)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Error(err)
    }
}

func TestApproveConsumedPendingEventIsNotFound(t *testing.T) {
    e, mock := moderationServer(t)
    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("FROM pending_events t WHERE t.id = ? FOR UPDATE")).WithArgs(7).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    mock.ExpectRollback()

    rec := postJSON(e, "/admin/pending-events/7/approve", `{}`, nil)
    if rec.Code != http.StatusNotFound {
        t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Error(err)
    }
}

func TestApprovePendingEventBadID(t *testing.T) {
    e, _ := moderationServer(t)
    if rec := postJSON(e, "/admin/pending-events/abc/approve", `{}`, nil); rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d", rec.Code)
    }
}
