package handler

import (
    "net/http"
    "net/http/httptest"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"

    "github.com/edirne-events/events-api/internal/middleware"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/utils"
)

const testSecret = "test-secret"

func authHeader(t *testing.T, sub uint64, role string) map[string]string {
    t.Helper()
    tok, err := utils.NewAccessToken(testSecret, sub, role, 5)
    if err != nil {
        t.Fatal(err)
    }
    return map[string]string{"Authorization": "Bearer " + tok.Token}
}

func userServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
    db, mock := newMockDB(t)
    fav := &FavoriteHandler{Favorites: repository.NewFavoriteRepo(db)}
    rev := &ReviewHandler{Reviews: repository.NewReviewRepo(db)}
    auth := middleware.JWTAuth(testSecret)
    e := echo.New()
    e.Validator = NewRequestValidator()
    e.POST("/favorites", fav.Add, auth)
    e.GET("/favorites/check", fav.Check, auth)
    e.POST("/reviews", rev.Create, auth)
    return e, mock
}

func TestFavoriteAddStatuses(t *testing.T) {
    insert := regexp.QuoteMeta("INSERT IGNORE INTO favorites (user_id, event_id) VALUES (?, ?)")

    e, mock := userServer(t)
    mock.ExpectExec(insert).WithArgs(5, 9).WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectExec(insert).WithArgs(5, 9).WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE id = ?")).WithArgs(9).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

    user := authHeader(t, 5, utils.RoleUser)
    if rec := postJSON(e, "/favorites", `{"eventId":9}`, user); rec.Code != http.StatusCreated {
        t.Fatalf("first add = %d %s", rec.Code, rec.Body.String())
    }
    if rec := postJSON(e, "/favorites", `{"eventId":9}`, user); rec.Code != http.StatusOK {
        t.Fatalf("second add = %d %s", rec.Code, rec.Body.String())
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Error(err)
    }
}

func TestUserRoutesNeedASiteUser(t *testing.T) {
    e, mock := userServer(t)
    admin := authHeader(t, 0, utils.RoleAdmin)

    if rec := postJSON(e, "/favorites", `{"eventId":9}`, nil); rec.Code != http.StatusUnauthorized {
        t.Fatalf("no token = %d", rec.Code)
    }
    if rec := postJSON(e, "/favorites", `{"eventId":9}`, admin); rec.Code != http.StatusUnauthorized {
        t.Fatalf("admin token = %d", rec.Code)
    }
    if rec := postJSON(e, "/reviews", `{"eventId":9,"rating":4}`, admin); rec.Code != http.StatusUnauthorized {
        t.Fatalf("admin review = %d", rec.Code)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Error(err)
    }
}

func TestFavoriteRequestValidation(t *testing.T) {
    e, _ := userServer(t)
    user := authHeader(t, 5, utils.RoleUser)

    if rec := postJSON(e, "/favorites", `{}`, user); rec.Code != http.StatusBadRequest {
        t.Fatalf("missing eventId = %d", rec.Code)
    }
    req := httptest.NewRequest(http.MethodGet, "/favorites/check?eventId=abc", nil)
    for k, v := range user {
        req.Header.Set(k, v)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("bad eventId = %d", rec.Code)
    }
}

func TestReviewRatingOutOfRange(t *testing.T) {
    e, mock := userServer(t)
    user := authHeader(t, 5, utils.RoleUser)
    for _, body := range []string{`{"eventId":9,"rating":0}`, `{"eventId":9,"rating":6}`} {
        rec := postJSON(e, "/reviews", body, user)
        if rec.Code != http.StatusBadRequest {
            t.Fatalf("%s -> %d", body, rec.Code)
        }
    }
    if rec := postJSON(e, "/reviews", `{"rating":4}`, user); rec.Code != http.StatusBadRequest {
        t.Fatalf("missing eventId -> %d", rec.Code)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Error(err)
    }
}
