package repository

import (
    "context"
    "database/sql/driver"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
)

func pendingEventRow(id uint64) []driver.Value {
    return rowOf(id, eventFieldValues("Tava Ciğer Festivali", "", "2025-09-12"),
        nil, "Ali", "ali@example.com", nil, "pending", fixedTime, fixedTime)
}

func TestPendingLockTxUsesRowLock(t *testing.T) {
    db, mock := newMock(t)
    repo := NewPendingEventRepo(db)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("FROM pending_events t WHERE t.id = ? FOR UPDATE")).
        WithArgs(3).
        WillReturnRows(sqlmock.NewRows(columns(27)).AddRow(pendingEventRow(3)...))
    mock.ExpectQuery(regexp.QuoteMeta("FROM pending_event_categories WHERE pending_event_id IN (?)")).
        WithArgs(3).
        WillReturnRows(sqlmock.NewRows([]string{"pending_event_id", "category_id"}).AddRow(3, 2))
    mock.ExpectRollback()

    tx, err := db.Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }
    p, err := repo.LockTx(context.Background(), tx, 3)
    if err != nil {
        t.Fatalf("LockTx: %v", err)
    }
    _ = tx.Rollback()

    if p.Title != "Tava Ciğer Festivali" || p.SubmitterEmail != "ali@example.com" {
        t.Fatalf("unexpected pending event %+v", p)
    }
    if p.Price != nil || p.SubmitterPhone != nil {
        t.Fatalf("nullable columns should stay nil: %+v", p)
    }
    if len(p.CategoryIDs) != 1 || p.CategoryIDs[0] != 2 {
        t.Fatalf("categories = %v", p.CategoryIDs)
    }
    expectationsMet(t, mock)
}

func TestPendingLockTxAlreadyConsumed(t *testing.T) {
    db, mock := newMock(t)
    repo := NewPendingEventRepo(db)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
        WithArgs(3).
        WillReturnRows(sqlmock.NewRows(columns(27)))
    mock.ExpectRollback()

    tx, err := db.Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }
    defer tx.Rollback()
    if _, err := repo.LockTx(context.Background(), tx, 3); !errors.Is(err, ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
}

func TestPendingDeleteTxMissingRow(t *testing.T) {
    db, mock := newMock(t)
    repo := NewPendingEventRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM pending_events WHERE id = ?")).
        WithArgs(3).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    tx, err := db.Begin()
    if err != nil {
        t.Fatalf("begin: %v", err)
    }
    defer tx.Rollback()
    if err := repo.DeleteTx(context.Background(), tx, 3); !errors.Is(err, ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
}
