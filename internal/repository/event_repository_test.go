package repository

import (
    "context"
    "regexp"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
)

func TestExpiredPredicateIsSharedByListAndDeactivate(t *testing.T) {
    db, mock := newMock(t)
    repo := NewEventRepo(db)

    loc := time.FixedZone("TRT", 3*60*60)
    now := time.Date(2025, 6, 1, 18, 30, 0, 0, loc)

    mock.ExpectQuery(regexp.QuoteMeta(qualify(ExpiredPredicate()))).
        WithArgs("2025-06-01 18:30:00", "2025-06-01", "2025-06-01").
        WillReturnRows(sqlmock.NewRows(columns(27)))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET is_active = 0, updated_at = UTC_TIMESTAMP() WHERE " + ExpiredPredicate())).
        WithArgs("2025-06-01 18:30:00", "2025-06-01", "2025-06-01").
        WillReturnResult(sqlmock.NewResult(0, 2))

    listed, err := repo.ListExpired(context.Background(), now)
    if err != nil {
        t.Fatalf("ListExpired: %v", err)
    }
    if len(listed) != 0 {
        t.Fatalf("expected no rows, got %d", len(listed))
    }
    n, err := repo.DeactivateExpired(context.Background(), now)
    if err != nil {
        t.Fatalf("DeactivateExpired: %v", err)
    }
    if n != 2 {
        t.Fatalf("deactivated = %d, want 2", n)
    }
    expectationsMet(t, mock)
}

func TestDeactivateExpiredSecondRunChangesNothing(t *testing.T) {
    db, mock := newMock(t)
    repo := NewEventRepo(db)
    now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

    update := regexp.QuoteMeta("UPDATE events SET is_active = 0")
    mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 3))
    mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))

    first, err := repo.DeactivateExpired(context.Background(), now)
    if err != nil || first != 3 {
        t.Fatalf("first run = %d, %v", first, err)
    }
    second, err := repo.DeactivateExpired(context.Background(), now)
    if err != nil || second != 0 {
        t.Fatalf("second run = %d, %v", second, err)
    }
    expectationsMet(t, mock)
}

func TestQualifyPrefixesEveryColumnOnce(t *testing.T) {
    got := qualify(ExpiredPredicate())
    if strings.Contains(got, "t.t.") {
        t.Fatalf("double prefix in %q", got)
    }
    for _, col := range []string{"t.is_active", "t.end_date", "t.end_time", "t.start_date"} {
        if !strings.Contains(got, col) {
            t.Errorf("missing %s in %q", col, got)
        }
    }
}

func TestSetFeaturedMissingEvent(t *testing.T) {
    db, mock := newMock(t)
    repo := NewEventRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET is_featured = ?")).
        WithArgs(true, 42).
        WillReturnResult(sqlmock.NewResult(0, 0))

    if err := repo.SetFeatured(context.Background(), 42, true); err != ErrNotFound {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
    expectationsMet(t, mock)
}

func TestGetByIDLoadsCategories(t *testing.T) {
    db, mock := newMock(t)
    repo := NewEventRepo(db)

    vals := rowOf(uint64(5), eventFieldValues("Kırkpınar", "Sarayiçi", "2025-07-04"),
        "150", true, false, 4.5, 2, fixedTime, fixedTime)

    mock.ExpectQuery(regexp.QuoteMeta("FROM events t WHERE t.id = ?")).
        WithArgs(5).
        WillReturnRows(sqlmock.NewRows(columns(27)).AddRow(vals...))
    mock.ExpectQuery(regexp.QuoteMeta("FROM event_categories WHERE event_id IN (?)")).
        WithArgs(5).
        WillReturnRows(sqlmock.NewRows([]string{"event_id", "category_id"}).AddRow(5, 1).AddRow(5, 3))

    e, err := repo.GetByID(context.Background(), 5)
    if err != nil {
        t.Fatalf("GetByID: %v", err)
    }
    if e.Title != "Kırkpınar" || e.Price != "150" || e.Rating != 4.5 || e.ReviewCount != 2 {
        t.Fatalf("unexpected event %+v", e)
    }
    if len(e.CategoryIDs) != 2 || e.CategoryIDs[0] != 1 || e.CategoryIDs[1] != 3 {
        t.Fatalf("categories = %v", e.CategoryIDs)
    }
    if len(e.Media) != 0 || e.EndDate != nil {
        t.Fatalf("optional fields should be empty: %+v", e.EventFields)
    }
    expectationsMet(t, mock)
}
