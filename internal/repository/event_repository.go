package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/edirne-events/events-api/internal/model"
)

// EventRepo provides access to the live `events` table and its
// `event_categories` join table.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventSelect = `SELECT t.id, ` + eventFieldSelect + `,
    t.price, t.is_active, t.is_featured, t.rating, t.review_count, t.created_at, t.updated_at
    FROM events t`

func scanEvent(s rowScanner) (model.Event, error) {
    var (
        e      model.Event
        fs     eventFieldScan
        price  sql.NullString
        rating sql.NullFloat64
    )
    dest := append([]any{&e.ID}, fs.dest()...)
    dest = append(dest, &price, &e.IsActive, &e.IsFeatured, &rating, &e.ReviewCount, &e.CreatedAt, &e.UpdatedAt)
    if err := s.Scan(dest...); err != nil {
        return e, err
    }
    fs.apply(&e.EventFields)
    e.Price = price.String
    if e.Price == "" {
        e.Price = "0"
    }
    e.Rating = rating.Float64
    e.CategoryIDs = []uint64{}
    return e, nil
}

// GetByID returns one event with its category ids or ErrNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
    return r.getByID(ctx, r.db, id)
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *EventRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error) {
    return r.getByID(ctx, tx, id)
}

func (r *EventRepo) getByID(ctx context.Context, q querier, id uint64) (*model.Event, error) {
    e, err := scanEvent(q.QueryRowContext(ctx, eventSelect+` WHERE t.id = ?`, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, fmt.Errorf("get event: %w", err)
    }
    cats, err := categoryIDsFor(ctx, q, `SELECT event_id, category_id FROM event_categories WHERE event_id IN (`, []uint64{id})
    if err != nil {
        return nil, err
    }
    if ids, ok := cats[id]; ok {
        e.CategoryIDs = ids
    }
    return &e, nil
}

// EventFilter defines filters and pagination for listing events.
type EventFilter struct {
    Query           string
    CategoryID      uint64
    FeaturedOnly    bool
    From            string // start_date lower bound, "2006-01-02"
    To              string // start_date upper bound, "2006-01-02"
    IncludeInactive bool
    Page            int
    PageSize        int
}

// List returns a page of events matching f together with the total count.
// Public listings only see active events; admin listings set IncludeInactive.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, int64, error) {
    where := []string{}
    args := []any{}

    if !f.IncludeInactive {
        where = append(where, "t.is_active = 1")
    }
    if f.Query != "" {
        where = append(where, "(LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ? OR LOWER(t.location) LIKE ?)")
        like := "%" + strings.ToLower(f.Query) + "%"
        args = append(args, like, like, like)
    }
    if f.CategoryID > 0 {
        where = append(where, "EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = t.id AND ec.category_id = ?)")
        args = append(args, f.CategoryID)
    }
    if f.FeaturedOnly {
        where = append(where, "t.is_featured = 1")
    }
    if f.From != "" {
        where = append(where, "t.start_date >= ?")
        args = append(args, f.From)
    }
    if f.To != "" {
        where = append(where, "t.start_date <= ?")
        args = append(args, f.To)
    }

    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }

    var total int64
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events t WHERE `+cond, args...).Scan(&total); err != nil {
        return nil, 0, fmt.Errorf("count events: %w", err)
    }

    if f.Page < 1 {
        f.Page = 1
    }
    if f.PageSize < 1 {
        f.PageSize = 20
    }
    dataSQL := eventSelect + ` WHERE ` + cond + `
        ORDER BY t.is_featured DESC, t.start_date ASC, t.start_time ASC, t.id ASC
        LIMIT ? OFFSET ?`
    argsData := append(append([]any{}, args...), f.PageSize, (f.Page-1)*f.PageSize)

    events, err := r.queryEvents(ctx, r.db, dataSQL, argsData...)
    if err != nil {
        return nil, 0, err
    }
    return events, total, nil
}

// ListWithCoordinates returns active events that carry a geo position.  It
// is the candidate set for distance searches, which are computed in Go.
func (r *EventRepo) ListWithCoordinates(ctx context.Context) ([]model.Event, error) {
    return r.queryEvents(ctx, r.db, eventSelect+`
        WHERE t.is_active = 1 AND t.latitude IS NOT NULL AND t.longitude IS NOT NULL
        ORDER BY t.start_date ASC`)
}

func (r *EventRepo) queryEvents(ctx context.Context, q querier, query string, args ...any) ([]model.Event, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, fmt.Errorf("list events: %w", err)
    }
    defer rows.Close()

    events := make([]model.Event, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        e, err := scanEvent(rows)
        if err != nil {
            return nil, fmt.Errorf("scan event: %w", err)
        }
        index[e.ID] = len(events)
        events = append(events, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(events) == 0 {
        return events, nil
    }
    ids := make([]uint64, 0, len(events))
    for _, e := range events {
        ids = append(ids, e.ID)
    }
    cats, err := categoryIDsFor(ctx, q, `SELECT event_id, category_id FROM event_categories WHERE event_id IN (`, ids)
    if err != nil {
        return nil, err
    }
    for id, c := range cats {
        if i, ok := index[id]; ok {
            events[i].CategoryIDs = c
        }
    }
    return events, nil
}

// categoryIDsFor runs prefix + placeholders + ")" and groups the
// (owner id, category id) pairs by owner.
func categoryIDsFor(ctx context.Context, q querier, prefix string, ids []uint64) (map[uint64][]uint64, error) {
    out := make(map[uint64][]uint64, len(ids))
    if len(ids) == 0 {
        return out, nil
    }
    rows, err := q.QueryContext(ctx, prefix+placeholders(len(ids))+`) ORDER BY category_id`, uintArgs(ids)...)
    if err != nil {
        return nil, fmt.Errorf("load category links: %w", err)
    }
    defer rows.Close()
    for rows.Next() {
        var owner, cat uint64
        if err := rows.Scan(&owner, &cat); err != nil {
            return nil, err
        }
        out[owner] = append(out[owner], cat)
    }
    return out, rows.Err()
}

// CreateTx inserts a live event built from f.  The event is always created
// active; rating and review count start at zero.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, f model.EventFields, price string, featured bool) (uint64, error) {
    args, err := eventFieldArgs(f)
    if err != nil {
        return 0, err
    }
    if strings.TrimSpace(price) == "" {
        price = "0"
    }
    args = append(args, price, featured)
    q := `INSERT INTO events (` + eventFieldColumns + `, price, is_featured, is_active)
          VALUES (` + placeholders(eventFieldCount+2) + `, 1)`
    res, err := tx.ExecContext(ctx, q, args...)
    if err != nil {
        return 0, fmt.Errorf("insert event: %w", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// UpdateTx overwrites the descriptive fields, price and featured flag of
// an existing event.  It returns ErrNotFound when no row matches.
func (r *EventRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, f model.EventFields, price string, featured bool) error {
    args, err := eventFieldArgs(f)
    if err != nil {
        return err
    }
    sets := strings.Split(eventFieldColumns, ",")
    for i := range sets {
        sets[i] = strings.TrimSpace(sets[i]) + " = ?"
    }
    args = append(args, price, featured, id)
    q := `UPDATE events SET ` + strings.Join(sets, ", ") + `, price = ?, is_featured = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
    res, err := tx.ExecContext(ctx, q, args...)
    if err != nil {
        return fmt.Errorf("update event: %w", err)
    }
    return expectRow(res)
}

// InsertCategoriesTx links an event to the given categories.  Passing an
// empty slice has no effect.
func (r *EventRepo) InsertCategoriesTx(ctx context.Context, tx *sql.Tx, eventID uint64, categoryIDs []uint64) error {
    if len(categoryIDs) == 0 {
        return nil
    }
    query := `INSERT INTO event_categories (event_id, category_id) VALUES `
    args := make([]any, 0, len(categoryIDs)*2)
    for i, cid := range categoryIDs {
        if i > 0 {
            query += ","
        }
        query += "(?, ?)"
        args = append(args, eventID, cid)
    }
    if _, err := tx.ExecContext(ctx, query, args...); err != nil {
        return fmt.Errorf("insert event categories: %w", err)
    }
    return nil
}

// ReplaceCategoriesTx removes every category link of the event and inserts
// the given ones.
func (r *EventRepo) ReplaceCategoriesTx(ctx context.Context, tx *sql.Tx, eventID uint64, categoryIDs []uint64) error {
    if _, err := tx.ExecContext(ctx, `DELETE FROM event_categories WHERE event_id = ?`, eventID); err != nil {
        return fmt.Errorf("delete event categories: %w", err)
    }
    return r.InsertCategoriesTx(ctx, tx, eventID, categoryIDs)
}

// Delete removes an event; category links, reviews and favorites cascade.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
    if err != nil {
        return fmt.Errorf("delete event: %w", err)
    }
    return expectRow(res)
}

// SetFeatured toggles the featured flag.
func (r *EventRepo) SetFeatured(ctx context.Context, id uint64, featured bool) error {
    return r.setFlag(ctx, "is_featured", id, featured)
}

// SetActive toggles the active flag.
func (r *EventRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    return r.setFlag(ctx, "is_active", id, active)
}

func (r *EventRepo) setFlag(ctx context.Context, column string, id uint64, v bool) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE events SET `+column+` = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`, v, id)
    if err != nil {
        return fmt.Errorf("update event %s: %w", column, err)
    }
    return expectRow(res)
}

// expiredPredicate selects active events whose expiry instant is at or
// before now.  Arguments, in order: now as "2006-01-02 15:04:05" and today
// as "2006-01-02" twice, all in the site's time zone.
//
//   end date + end time  -> expired once that instant has passed
//   end date only        -> expired once today is after the end date
//   no end date          -> expired once today is after the start date
//
// service.IsExpired mirrors this rule; keep both in sync.
const expiredPredicate = `is_active = 1 AND (
        (end_date IS NOT NULL AND end_time IS NOT NULL AND TIMESTAMP(end_date, end_time) <= ?)
        OR (end_date IS NOT NULL AND end_time IS NULL AND end_date < ?)
        OR (end_date IS NULL AND start_date < ?)
    )`

// ExpiredPredicate returns the SQL condition shared by ListExpired and
// DeactivateExpired.  It is exported for tests.
func ExpiredPredicate() string { return expiredPredicate }

func expiredArgs(now time.Time) []any {
    today := now.Format("2006-01-02")
    return []any{now.Format("2006-01-02 15:04:05"), today, today}
}

// ListExpired returns active events whose expiry instant is at or before
// now, without modifying them.  now must already be in the site's zone.
func (r *EventRepo) ListExpired(ctx context.Context, now time.Time) ([]model.Event, error) {
    return r.queryEvents(ctx, r.db,
        eventSelect+` WHERE `+qualify(expiredPredicate)+` ORDER BY t.start_date ASC`,
        expiredArgs(now)...)
}

// DeactivateExpired flips is_active to false for every event matched by the
// expiry predicate in one statement and returns the number of rows changed.
func (r *EventRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE events SET is_active = 0, updated_at = UTC_TIMESTAMP() WHERE `+expiredPredicate,
        expiredArgs(now)...)
    if err != nil {
        return 0, fmt.Errorf("deactivate expired events: %w", err)
    }
    return res.RowsAffected()
}

// qualify prefixes the predicate's column names with the t alias used by
// eventSelect.
func qualify(pred string) string {
    r := strings.NewReplacer(
        "is_active", "t.is_active",
        "end_date", "t.end_date",
        "end_time", "t.end_time",
        "start_date", "t.start_date",
    )
    return r.Replace(pred)
}

// expectRow maps "zero rows affected" to ErrNotFound.
func expectRow(res sql.Result) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// Counts returns simple totals for the admin dashboard.
func (r *EventRepo) Counts(ctx context.Context) (map[string]int64, error) {
    const q = `SELECT
        (SELECT COUNT(*) FROM events WHERE is_active = 1),
        (SELECT COUNT(*) FROM events),
        (SELECT COUNT(*) FROM pending_events),
        (SELECT COUNT(*) FROM venues),
        (SELECT COUNT(*) FROM pending_venues),
        (SELECT COUNT(*) FROM users),
        (SELECT COUNT(*) FROM reviews)`
    var activeEvents, events, pendingEvents, venues, pendingVenues, users, reviews int64
    if err := r.db.QueryRowContext(ctx, q).Scan(&activeEvents, &events, &pendingEvents, &venues, &pendingVenues, &users, &reviews); err != nil {
        return nil, fmt.Errorf("load counts: %w", err)
    }
    return map[string]int64{
        "activeEvents":  activeEvents,
        "events":        events,
        "pendingEvents": pendingEvents,
        "venues":        venues,
        "pendingVenues": pendingVenues,
        "users":         users,
        "reviews":       reviews,
    }, nil
}
