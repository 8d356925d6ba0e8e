package service

import (
    "context"
    "database/sql"
    "database/sql/driver"
    "sync"
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

// published is one call seen by recordingPublisher.
type published struct {
    key string
    v   any
}

type recordingPublisher struct {
    mu    sync.Mutex
    calls []published
}

func (p *recordingPublisher) Publish(_ context.Context, key string, v any) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.calls = append(p.calls, published{key: key, v: v})
    return nil
}

func (p *recordingPublisher) keys() []string {
    p.mu.Lock()
    defer p.mu.Unlock()
    out := make([]string, 0, len(p.calls))
    for _, c := range p.calls {
        out = append(out, c.key)
    }
    return out
}

func strp(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

var created = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// fieldValues is the 19 column event field block with title, location and
// start date filled in.
func fieldValues(title, location, start string) []driver.Value {
    v := make([]driver.Value, 19)
    v[0] = title
    v[2] = location
    v[4] = start
    return v
}

func pendingEventRows(id uint64, title, location, start, price, email string) *sqlmock.Rows {
    row := append([]driver.Value{id}, fieldValues(title, location, start)...)
    row = append(row, price, "Ayşe", email, nil, "pending", created, created)
    return sqlmock.NewRows(cols(len(row))).AddRow(row...)
}

func liveEventRows(id uint64, title, location, start, price string) *sqlmock.Rows {
    return featuredEventRows(id, title, location, start, price, false)
}

func featuredEventRows(id uint64, title, location, start, price string, featured bool) *sqlmock.Rows {
    row := append([]driver.Value{id}, fieldValues(title, location, start)...)
    row = append(row, price, true, featured, 0.0, 0, created, created)
    return sqlmock.NewRows(cols(len(row))).AddRow(row...)
}

// venueValues is the 12 column venue field block with name, address and
// category id filled in.
func venueValues(name, address string, category uint64) []driver.Value {
    v := make([]driver.Value, 12)
    v[0] = name
    v[2] = address
    v[6] = int64(category)
    return v
}

func pendingVenueRows(id uint64, name, address string, category uint64, email string) *sqlmock.Rows {
    row := append([]driver.Value{id}, venueValues(name, address, category)...)
    row = append(row, "Mehmet", email, nil, "pending", created, created)
    return sqlmock.NewRows(cols(len(row))).AddRow(row...)
}

func liveVenueRows(id uint64, name, address string, category uint64, featured bool) *sqlmock.Rows {
    row := append([]driver.Value{id}, venueValues(name, address, category)...)
    row = append(row, 0.0, true, featured, created, created)
    return sqlmock.NewRows(cols(len(row))).AddRow(row...)
}

// fieldArgs expects n arguments of any value followed by tail.
func fieldArgs(n int, tail ...driver.Value) []driver.Value {
    out := make([]driver.Value, 0, n+len(tail))
    for i := 0; i < n; i++ {
        out = append(out, sqlmock.AnyArg())
    }
    return append(out, tail...)
}

func linkRows(owner uint64, cats ...uint64) *sqlmock.Rows {
    rows := sqlmock.NewRows([]string{"owner", "category_id"})
    for _, c := range cats {
        rows.AddRow(owner, c)
    }
    return rows
}

func cols(n int) []string {
    out := make([]string, n)
    for i := range out {
        out[i] = "c"
    }
    return out
}
