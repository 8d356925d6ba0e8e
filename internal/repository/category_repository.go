package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/edirne-events/events-api/internal/model"
)

// CategoryRepo manages one of the two category tables.  Event categories
// and venue categories share a shape, so the same code serves both; only
// the table name and the referencing check differ.
type CategoryRepo struct {
    db    *sql.DB
    table string
    // usage counts rows that still reference a category; a non-zero
    // result blocks deletion.
    usage string
}

// NewCategoryRepo returns a repo for event categories (`categories`).
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
    return &CategoryRepo{
        db:    db,
        table: "categories",
        usage: `SELECT COUNT(*) FROM event_categories WHERE category_id = ?`,
    }
}

// NewVenueCategoryRepo returns a repo for `venue_categories`.
func NewVenueCategoryRepo(db *sql.DB) *CategoryRepo {
    return &CategoryRepo{
        db:    db,
        table: "venue_categories",
        usage: `SELECT COUNT(*) FROM venues WHERE category_id = ?`,
    }
}

func (r *CategoryRepo) selectSQL() string {
    return `SELECT id, name, display_name, color, icon, sort_order, is_active FROM ` + r.table
}

func scanCategory(s rowScanner) (model.Category, error) {
    var (
        c           model.Category
        color, icon sql.NullString
    )
    if err := s.Scan(&c.ID, &c.Name, &c.DisplayName, &color, &icon, &c.SortOrder, &c.IsActive); err != nil {
        return c, err
    }
    c.Color = strPtr(color)
    c.Icon = strPtr(icon)
    return c, nil
}

// List returns categories by sort order.  Public callers pass activeOnly.
func (r *CategoryRepo) List(ctx context.Context, activeOnly bool) ([]model.Category, error) {
    q := r.selectSQL()
    if activeOnly {
        q += ` WHERE is_active = 1`
    }
    q += ` ORDER BY sort_order ASC, id ASC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, fmt.Errorf("list %s: %w", r.table, err)
    }
    defer rows.Close()
    out := make([]model.Category, 0)
    for rows.Next() {
        c, err := scanCategory(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// GetByID returns a category or ErrNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
    c, err := scanCategory(r.db.QueryRowContext(ctx, r.selectSQL()+` WHERE id = ?`, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, fmt.Errorf("get %s: %w", r.table, err)
    }
    return &c, nil
}

// Create inserts a category.  A duplicate name yields ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO `+r.table+` (name, display_name, color, icon, sort_order, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
        c.Name, c.DisplayName, c.Color, c.Icon, c.SortOrder, c.IsActive)
    if err != nil {
        if isDuplicate(err) {
            return 0, ErrConflict
        }
        return 0, fmt.Errorf("insert %s: %w", r.table, err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Update overwrites a category.
func (r *CategoryRepo) Update(ctx context.Context, c model.Category) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE `+r.table+` SET name = ?, display_name = ?, color = ?, icon = ?, sort_order = ?, is_active = ? WHERE id = ?`,
        c.Name, c.DisplayName, c.Color, c.Icon, c.SortOrder, c.IsActive, c.ID)
    if err != nil {
        if isDuplicate(err) {
            return ErrConflict
        }
        return fmt.Errorf("update %s: %w", r.table, err)
    }
    return expectRow(res)
}

// Usage returns how many rows reference the category.
func (r *CategoryRepo) Usage(ctx context.Context, id uint64) (int64, error) {
    var n int64
    if err := r.db.QueryRowContext(ctx, r.usage, id).Scan(&n); err != nil {
        return 0, fmt.Errorf("count %s usage: %w", r.table, err)
    }
    return n, nil
}

// Delete removes a category.  It returns ErrInUse while any row still
// references it and ErrNotFound when it does not exist.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
    n, err := r.Usage(ctx, id)
    if err != nil {
        return err
    }
    if n > 0 {
        return ErrInUse
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id = ?`, id)
    if err != nil {
        if isReferenced(err) {
            return ErrInUse
        }
        return fmt.Errorf("delete %s: %w", r.table, err)
    }
    return expectRow(res)
}
