package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/edirne-events/events-api/internal/model"
)

// FavoriteRepo manages the `favorites` table.  The unique (user_id,
// event_id) key makes adding idempotent.
type FavoriteRepo struct {
    db *sql.DB
}

// NewFavoriteRepo returns a new FavoriteRepo bound to the given database.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add records a favorite.  It reports created=false when the pair already
// existed; that is not an error.  An unknown event yields ErrNotFound.
func (r *FavoriteRepo) Add(ctx context.Context, userID, eventID uint64) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT IGNORE INTO favorites (user_id, event_id) VALUES (?, ?)`, userID, eventID)
    if err != nil {
        return false, fmt.Errorf("insert favorite: %w", err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    if n == 1 {
        return true, nil
    }
    // IGNORE also swallows foreign key failures, so tell "already there"
    // apart from "no such event".
    var events int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE id = ?`, eventID).Scan(&events); err != nil {
        return false, fmt.Errorf("check event: %w", err)
    }
    if events == 0 {
        return false, ErrNotFound
    }
    return false, nil
}

// Remove deletes a favorite.  Removing a missing pair is a no-op.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, eventID uint64) error {
    if _, err := r.db.ExecContext(ctx,
        `DELETE FROM favorites WHERE user_id = ? AND event_id = ?`, userID, eventID); err != nil {
        return fmt.Errorf("delete favorite: %w", err)
    }
    return nil
}

// Exists reports whether the user has favorited the event.
func (r *FavoriteRepo) Exists(ctx context.Context, userID, eventID uint64) (bool, error) {
    var n int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM favorites WHERE user_id = ? AND event_id = ?`, userID, eventID).Scan(&n); err != nil {
        return false, fmt.Errorf("check favorite: %w", err)
    }
    return n > 0, nil
}

// ListEvents returns the events a user has favorited, most recent first.
func (r *FavoriteRepo) ListEvents(ctx context.Context, userID uint64) ([]model.Event, error) {
    events := &EventRepo{db: r.db}
    return events.queryEvents(ctx, r.db,
        eventSelect+` JOIN favorites f ON f.event_id = t.id WHERE f.user_id = ? ORDER BY f.created_at DESC, f.id DESC`,
        userID)
}
