package repository

import (
    "database/sql"
    "database/sql/driver"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock: %v", err)
    }
    t.Cleanup(func() { db.Close() })
    return db, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
    t.Helper()
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

// eventFieldValues returns one row's worth of eventFieldSelect columns with
// only title, location and start date set.
func eventFieldValues(title, location, start string) []driver.Value {
    v := make([]driver.Value, eventFieldCount)
    v[0] = title
    v[2] = location
    v[4] = start
    return v
}

// rowOf lays out id, the shared field block and any trailing columns as
// one result row.
func rowOf(id any, fields []driver.Value, tail ...driver.Value) []driver.Value {
    out := append([]driver.Value{id}, fields...)
    return append(out, tail...)
}

func columns(n int) []string {
    out := make([]string, n)
    for i := range out {
        out[i] = "c"
    }
    return out
}

var fixedTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
