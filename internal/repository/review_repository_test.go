package repository

import (
    "context"
    "errors"
    "regexp"
    "strings"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"

    "github.com/edirne-events/events-api/internal/model"
)

var insertReview = regexp.QuoteMeta("INSERT INTO reviews (event_id, user_id, rating, comment, is_anonymous)")

func TestCreateAndRecomputeCommitsInsertAndAggregate(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReviewRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec(insertReview).
        WithArgs(11, 2, 4, nil, false).
        WillReturnResult(sqlmock.NewResult(30, 1))
    mock.ExpectExec(regexp.QuoteMeta(RecomputeSQL())).
        WithArgs(11).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    id, created, err := repo.CreateAndRecompute(context.Background(), model.Review{EventID: 11, UserID: 2, Rating: 4})
    if err != nil {
        t.Fatalf("CreateAndRecompute: %v", err)
    }
    if id != 30 || !created {
        t.Fatalf("id = %d, created = %v; want 30, true", id, created)
    }
    expectationsMet(t, mock)
}

func TestCreateAndRecomputeDuplicateReviewIsNoop(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReviewRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec(insertReview).
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '11-2' for key 'uq_reviews_event_user'"})
    mock.ExpectRollback()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM reviews WHERE event_id = ? AND user_id = ?")).
        WithArgs(11, 2).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))

    id, created, err := repo.CreateAndRecompute(context.Background(), model.Review{EventID: 11, UserID: 2, Rating: 5})
    if err != nil {
        t.Fatalf("duplicate review should not be an error: %v", err)
    }
    if id != 30 || created {
        t.Fatalf("id = %d, created = %v; want existing review 30, false", id, created)
    }
    expectationsMet(t, mock)
}

func TestCreateAndRecomputeUnknownEvent(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReviewRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec(insertReview).WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
    mock.ExpectRollback()

    _, _, err := repo.CreateAndRecompute(context.Background(), model.Review{EventID: 99, UserID: 2, Rating: 5})
    if !errors.Is(err, ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
    expectationsMet(t, mock)
}

func TestRecomputeIsSetBased(t *testing.T) {
    q := RecomputeSQL()
    for _, want := range []string{"ROUND(AVG(r.rating), 1)", "r.is_approved = 1", "COUNT(*)", "WHERE e.id = ?"} {
        if !strings.Contains(q, want) {
            t.Errorf("recompute statement lacks %q", want)
        }
    }
}

func TestSetApprovalMissingReview(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReviewRepo(db)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id FROM reviews WHERE id = ? FOR UPDATE")).
        WithArgs(8).
        WillReturnRows(sqlmock.NewRows([]string{"event_id"}))
    mock.ExpectRollback()

    if err := repo.SetApproval(context.Background(), 8, false); !errors.Is(err, ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
    expectationsMet(t, mock)
}
