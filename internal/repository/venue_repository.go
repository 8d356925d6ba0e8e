package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/edirne-events/events-api/internal/model"
)

// VenueRepo provides CRUD operations for the live `venues` table.
type VenueRepo struct {
    db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueSelect = `SELECT t.id, ` + venueFieldSelect + `,
    t.rating, t.is_active, t.is_featured, t.created_at, t.updated_at
    FROM venues t`

func scanVenue(s rowScanner) (model.Venue, error) {
    var (
        v      model.Venue
        fs     venueFieldScan
        rating sql.NullFloat64
    )
    dest := append([]any{&v.ID}, fs.dest()...)
    dest = append(dest, &rating, &v.IsActive, &v.IsFeatured, &v.CreatedAt, &v.UpdatedAt)
    if err := s.Scan(dest...); err != nil {
        return v, err
    }
    fs.apply(&v.VenueFields)
    v.Rating = rating.Float64
    return v, nil
}

// GetByID returns a venue or ErrNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
    return r.getByID(ctx, r.db, id)
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *VenueRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Venue, error) {
    return r.getByID(ctx, tx, id)
}

func (r *VenueRepo) getByID(ctx context.Context, q querier, id uint64) (*model.Venue, error) {
    v, err := scanVenue(q.QueryRowContext(ctx, venueSelect+` WHERE t.id = ?`, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, fmt.Errorf("get venue: %w", err)
    }
    return &v, nil
}

// VenueFilter narrows venue listings.
type VenueFilter struct {
    Query           string
    CategoryID      uint64
    IncludeInactive bool
}

// List returns venues ordered featured-first, then by name.
func (r *VenueRepo) List(ctx context.Context, f VenueFilter) ([]model.Venue, error) {
    where := []string{}
    args := []any{}
    if !f.IncludeInactive {
        where = append(where, "t.is_active = 1")
    }
    if f.Query != "" {
        where = append(where, "(LOWER(t.name) LIKE ? OR LOWER(t.address) LIKE ?)")
        like := "%" + strings.ToLower(f.Query) + "%"
        args = append(args, like, like)
    }
    if f.CategoryID > 0 {
        where = append(where, "t.category_id = ?")
        args = append(args, f.CategoryID)
    }
    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }
    rows, err := r.db.QueryContext(ctx, venueSelect+` WHERE `+cond+` ORDER BY t.is_featured DESC, t.name ASC`, args...)
    if err != nil {
        return nil, fmt.Errorf("list venues: %w", err)
    }
    defer rows.Close()
    out := make([]model.Venue, 0)
    for rows.Next() {
        v, err := scanVenue(rows)
        if err != nil {
            return nil, fmt.Errorf("scan venue: %w", err)
        }
        out = append(out, v)
    }
    return out, rows.Err()
}

// Create inserts a venue directly (admin path, no moderation).
func (r *VenueRepo) Create(ctx context.Context, f model.VenueFields, active, featured bool) (uint64, error) {
    return r.create(ctx, r.db, f, active, featured)
}

// CreateTx inserts a venue inside an existing transaction.
func (r *VenueRepo) CreateTx(ctx context.Context, tx *sql.Tx, f model.VenueFields, active, featured bool) (uint64, error) {
    return r.create(ctx, tx, f, active, featured)
}

func (r *VenueRepo) create(ctx context.Context, q querier, f model.VenueFields, active, featured bool) (uint64, error) {
    args := append(venueFieldArgs(f), active, featured)
    res, err := q.ExecContext(ctx,
        `INSERT INTO venues (`+venueFieldColumns+`, is_active, is_featured) VALUES (`+placeholders(venueFieldCount+2)+`)`,
        args...)
    if err != nil {
        return 0, fmt.Errorf("insert venue: %w", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Update overwrites a venue.  It returns ErrNotFound when no row matches.
func (r *VenueRepo) Update(ctx context.Context, id uint64, f model.VenueFields, active, featured bool) error {
    sets := strings.Split(venueFieldColumns, ",")
    for i := range sets {
        sets[i] = strings.TrimSpace(sets[i]) + " = ?"
    }
    args := append(venueFieldArgs(f), active, featured, id)
    res, err := r.db.ExecContext(ctx,
        `UPDATE venues SET `+strings.Join(sets, ", ")+`, is_active = ?, is_featured = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
        args...)
    if err != nil {
        return fmt.Errorf("update venue: %w", err)
    }
    return expectRow(res)
}

// Delete removes a venue.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
    if err != nil {
        return fmt.Errorf("delete venue: %w", err)
    }
    return expectRow(res)
}

// PendingVenueRepo provides access to `pending_venues`.
type PendingVenueRepo struct {
    db *sql.DB
}

// NewPendingVenueRepo returns a new PendingVenueRepo bound to the given database.
func NewPendingVenueRepo(db *sql.DB) *PendingVenueRepo { return &PendingVenueRepo{db: db} }

const pendingVenueSelect = `SELECT t.id, ` + venueFieldSelect + `,
    t.submitter_name, t.submitter_email, t.submitter_phone, t.status, t.created_at, t.updated_at
    FROM pending_venues t`

func scanPendingVenue(s rowScanner) (model.PendingVenue, error) {
    var (
        p     model.PendingVenue
        fs    venueFieldScan
        phone sql.NullString
    )
    dest := append([]any{&p.ID}, fs.dest()...)
    dest = append(dest, &p.SubmitterName, &p.SubmitterEmail, &phone, &p.Status, &p.CreatedAt, &p.UpdatedAt)
    if err := s.Scan(dest...); err != nil {
        return p, err
    }
    fs.apply(&p.VenueFields)
    p.SubmitterPhone = strPtr(phone)
    return p, nil
}

// Create inserts a pending venue with status "pending".
func (r *PendingVenueRepo) Create(ctx context.Context, p model.PendingVenue) (uint64, error) {
    args := append(venueFieldArgs(p.VenueFields), p.SubmitterName, p.SubmitterEmail, p.SubmitterPhone, model.StatusPending)
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO pending_venues (`+venueFieldColumns+`, submitter_name, submitter_email, submitter_phone, status)
         VALUES (`+placeholders(venueFieldCount+4)+`)`,
        args...)
    if err != nil {
        return 0, fmt.Errorf("insert pending venue: %w", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID returns a pending venue or ErrNotFound.
func (r *PendingVenueRepo) GetByID(ctx context.Context, id uint64) (*model.PendingVenue, error) {
    return r.get(ctx, r.db, pendingVenueSelect+` WHERE t.id = ?`, id)
}

// LockTx loads a pending venue with SELECT ... FOR UPDATE.
func (r *PendingVenueRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.PendingVenue, error) {
    return r.get(ctx, tx, pendingVenueSelect+` WHERE t.id = ? FOR UPDATE`, id)
}

func (r *PendingVenueRepo) get(ctx context.Context, q querier, query string, id uint64) (*model.PendingVenue, error) {
    p, err := scanPendingVenue(q.QueryRowContext(ctx, query, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, fmt.Errorf("get pending venue: %w", err)
    }
    return &p, nil
}

// List returns all pending venues, oldest first.
func (r *PendingVenueRepo) List(ctx context.Context) ([]model.PendingVenue, error) {
    rows, err := r.db.QueryContext(ctx, pendingVenueSelect+` ORDER BY t.created_at ASC, t.id ASC`)
    if err != nil {
        return nil, fmt.Errorf("list pending venues: %w", err)
    }
    defer rows.Close()
    out := make([]model.PendingVenue, 0)
    for rows.Next() {
        p, err := scanPendingVenue(rows)
        if err != nil {
            return nil, fmt.Errorf("scan pending venue: %w", err)
        }
        out = append(out, p)
    }
    return out, rows.Err()
}

// UpdateTx overwrites the editable fields of a pending venue in place.
func (r *PendingVenueRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, f model.VenueFields) error {
    sets := strings.Split(venueFieldColumns, ",")
    for i := range sets {
        sets[i] = strings.TrimSpace(sets[i]) + " = ?"
    }
    args := append(venueFieldArgs(f), id)
    if _, err := tx.ExecContext(ctx,
        `UPDATE pending_venues SET `+strings.Join(sets, ", ")+`, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
        args...); err != nil {
        return fmt.Errorf("update pending venue: %w", err)
    }
    return nil
}

// DeleteTx removes a pending venue row.
func (r *PendingVenueRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    res, err := tx.ExecContext(ctx, `DELETE FROM pending_venues WHERE id = ?`, id)
    if err != nil {
        return fmt.Errorf("delete pending venue: %w", err)
    }
    return expectRow(res)
}
