package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/edirne-events/events-api/internal/model"
)

// PendingEventRepo provides access to `pending_events` and its
// `pending_event_categories` join table.  Rows here are only ever created
// by public submissions and consumed by moderation.
type PendingEventRepo struct {
    db *sql.DB
}

// NewPendingEventRepo returns a new PendingEventRepo bound to the given database.
func NewPendingEventRepo(db *sql.DB) *PendingEventRepo { return &PendingEventRepo{db: db} }

const pendingEventSelect = `SELECT t.id, ` + eventFieldSelect + `,
    t.price, t.submitter_name, t.submitter_email, t.submitter_phone, t.status, t.created_at, t.updated_at
    FROM pending_events t`

const pendingCategoryQuery = `SELECT pending_event_id, category_id FROM pending_event_categories WHERE pending_event_id IN (`

func scanPendingEvent(s rowScanner) (model.PendingEvent, error) {
    var (
        p     model.PendingEvent
        fs    eventFieldScan
        price sql.NullString
        phone sql.NullString
    )
    dest := append([]any{&p.ID}, fs.dest()...)
    dest = append(dest, &price, &p.SubmitterName, &p.SubmitterEmail, &phone, &p.Status, &p.CreatedAt, &p.UpdatedAt)
    if err := s.Scan(dest...); err != nil {
        return p, err
    }
    fs.apply(&p.EventFields)
    p.Price = strPtr(price)
    p.SubmitterPhone = strPtr(phone)
    p.CategoryIDs = []uint64{}
    return p, nil
}

// CreateTx inserts a pending event with status "pending" and returns its id.
func (r *PendingEventRepo) CreateTx(ctx context.Context, tx *sql.Tx, p model.PendingEvent) (uint64, error) {
    args, err := eventFieldArgs(p.EventFields)
    if err != nil {
        return 0, err
    }
    args = append(args, p.Price, p.SubmitterName, p.SubmitterEmail, p.SubmitterPhone, model.StatusPending)
    q := `INSERT INTO pending_events (` + eventFieldColumns + `, price, submitter_name, submitter_email, submitter_phone, status)
          VALUES (` + placeholders(eventFieldCount+5) + `)`
    res, err := tx.ExecContext(ctx, q, args...)
    if err != nil {
        return 0, fmt.Errorf("insert pending event: %w", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// InsertCategoriesTx links a pending event to the given categories.
func (r *PendingEventRepo) InsertCategoriesTx(ctx context.Context, tx *sql.Tx, pendingID uint64, categoryIDs []uint64) error {
    if len(categoryIDs) == 0 {
        return nil
    }
    query := `INSERT INTO pending_event_categories (pending_event_id, category_id) VALUES `
    args := make([]any, 0, len(categoryIDs)*2)
    for i, cid := range categoryIDs {
        if i > 0 {
            query += ","
        }
        query += "(?, ?)"
        args = append(args, pendingID, cid)
    }
    if _, err := tx.ExecContext(ctx, query, args...); err != nil {
        return fmt.Errorf("insert pending event categories: %w", err)
    }
    return nil
}

// GetByID returns one pending event with its category ids or ErrNotFound.
func (r *PendingEventRepo) GetByID(ctx context.Context, id uint64) (*model.PendingEvent, error) {
    return r.get(ctx, r.db, pendingEventSelect+` WHERE t.id = ?`, id)
}

// LockTx loads a pending event with SELECT ... FOR UPDATE.  A second
// transaction locking the same id blocks until the first commits; if the
// first deleted the row, the second gets ErrNotFound.
func (r *PendingEventRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.PendingEvent, error) {
    return r.get(ctx, tx, pendingEventSelect+` WHERE t.id = ? FOR UPDATE`, id)
}

func (r *PendingEventRepo) get(ctx context.Context, q querier, query string, id uint64) (*model.PendingEvent, error) {
    p, err := scanPendingEvent(q.QueryRowContext(ctx, query, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, fmt.Errorf("get pending event: %w", err)
    }
    cats, err := categoryIDsFor(ctx, q, pendingCategoryQuery, []uint64{id})
    if err != nil {
        return nil, err
    }
    if ids, ok := cats[id]; ok {
        p.CategoryIDs = ids
    }
    return &p, nil
}

// List returns all pending events, oldest first, with their category ids.
func (r *PendingEventRepo) List(ctx context.Context) ([]model.PendingEvent, error) {
    rows, err := r.db.QueryContext(ctx, pendingEventSelect+` ORDER BY t.created_at ASC, t.id ASC`)
    if err != nil {
        return nil, fmt.Errorf("list pending events: %w", err)
    }
    defer rows.Close()

    out := make([]model.PendingEvent, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        p, err := scanPendingEvent(rows)
        if err != nil {
            return nil, fmt.Errorf("scan pending event: %w", err)
        }
        index[p.ID] = len(out)
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return out, nil
    }
    ids := make([]uint64, 0, len(out))
    for _, p := range out {
        ids = append(ids, p.ID)
    }
    cats, err := categoryIDsFor(ctx, r.db, pendingCategoryQuery, ids)
    if err != nil {
        return nil, err
    }
    for id, c := range cats {
        if i, ok := index[id]; ok {
            out[i].CategoryIDs = c
        }
    }
    return out, nil
}

// UpdateTx overwrites the editable fields of a pending event in place.  The
// status column is never touched.
func (r *PendingEventRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, f model.EventFields, price *string) error {
    args, err := eventFieldArgs(f)
    if err != nil {
        return err
    }
    sets := strings.Split(eventFieldColumns, ",")
    for i := range sets {
        sets[i] = strings.TrimSpace(sets[i]) + " = ?"
    }
    args = append(args, price, id)
    q := `UPDATE pending_events SET ` + strings.Join(sets, ", ") + `, price = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
    if _, err := tx.ExecContext(ctx, q, args...); err != nil {
        return fmt.Errorf("update pending event: %w", err)
    }
    return nil
}

// ReplaceCategoriesTx deletes every category link of the pending event and
// inserts the given ones.
func (r *PendingEventRepo) ReplaceCategoriesTx(ctx context.Context, tx *sql.Tx, pendingID uint64, categoryIDs []uint64) error {
    if err := r.DeleteCategoriesTx(ctx, tx, pendingID); err != nil {
        return err
    }
    return r.InsertCategoriesTx(ctx, tx, pendingID, categoryIDs)
}

// DeleteCategoriesTx removes the category links of a pending event.
func (r *PendingEventRepo) DeleteCategoriesTx(ctx context.Context, tx *sql.Tx, pendingID uint64) error {
    if _, err := tx.ExecContext(ctx, `DELETE FROM pending_event_categories WHERE pending_event_id = ?`, pendingID); err != nil {
        return fmt.Errorf("delete pending event categories: %w", err)
    }
    return nil
}

// DeleteTx removes the pending event row.  It returns ErrNotFound when the
// row is already gone.
func (r *PendingEventRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    res, err := tx.ExecContext(ctx, `DELETE FROM pending_events WHERE id = ?`, id)
    if err != nil {
        return fmt.Errorf("delete pending event: %w", err)
    }
    return expectRow(res)
}
