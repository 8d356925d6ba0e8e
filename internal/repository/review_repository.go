package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/edirne-events/events-api/internal/model"
)

// ReviewRepo stores reviews and keeps events.rating / events.review_count
// in step with them.
type ReviewRepo struct {
    db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// recomputeSQL recalculates an event's aggregate from all of its approved
// reviews in one statement.  Two concurrent reviews on the same event each
// recompute from the full set, so the last commit leaves the correct value.
const recomputeSQL = `UPDATE events e SET
    rating = COALESCE((SELECT ROUND(AVG(r.rating), 1) FROM reviews r WHERE r.event_id = e.id AND r.is_approved = 1), 0),
    review_count = (SELECT COUNT(*) FROM reviews r WHERE r.event_id = e.id AND r.is_approved = 1),
    updated_at = UTC_TIMESTAMP()
    WHERE e.id = ?`

// RecomputeSQL exposes the aggregate statement for tests.
func RecomputeSQL() string { return recomputeSQL }

const reviewSelect = `SELECT r.id, r.event_id, r.user_id, u.name, r.rating, r.comment, r.is_anonymous, r.is_approved, r.created_at
    FROM reviews r JOIN users u ON u.id = r.user_id`

func scanReview(s rowScanner) (model.Review, error) {
    var (
        rv            model.Review
        name, comment sql.NullString
    )
    if err := s.Scan(&rv.ID, &rv.EventID, &rv.UserID, &name, &rv.Rating, &comment, &rv.IsAnonymous, &rv.IsApproved, &rv.CreatedAt); err != nil {
        return rv, err
    }
    rv.Comment = strPtr(comment)
    if !rv.IsAnonymous {
        rv.UserName = strPtr(name)
    }
    return rv, nil
}

// CreateAndRecompute inserts a review and refreshes the event aggregate in
// the same transaction.  A second review by the same user for the same
// event changes nothing: the existing review's id is returned with
// created=false.  An unknown event yields ErrNotFound.
func (r *ReviewRepo) CreateAndRecompute(ctx context.Context, rv model.Review) (id uint64, created bool, err error) {
    id, err = r.insertAndRecompute(ctx, rv)
    if errors.Is(err, errDuplicateReview) {
        id, err = r.existingID(ctx, rv.EventID, rv.UserID)
        return id, false, err
    }
    if err != nil {
        return 0, false, err
    }
    return id, true, nil
}

var errDuplicateReview = errors.New("duplicate review")

func (r *ReviewRepo) insertAndRecompute(ctx context.Context, rv model.Review) (uint64, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := tx.ExecContext(ctx,
        `INSERT INTO reviews (event_id, user_id, rating, comment, is_anonymous) VALUES (?, ?, ?, ?, ?)`,
        rv.EventID, rv.UserID, rv.Rating, rv.Comment, rv.IsAnonymous)
    if err != nil {
        switch {
        case isDuplicate(err):
            return 0, errDuplicateReview
        case isMissingParent(err):
            return 0, ErrNotFound
        }
        return 0, fmt.Errorf("insert review: %w", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    if _, err := tx.ExecContext(ctx, recomputeSQL, rv.EventID); err != nil {
        return 0, fmt.Errorf("recompute rating: %w", err)
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return uint64(id), nil
}

func (r *ReviewRepo) existingID(ctx context.Context, eventID, userID uint64) (uint64, error) {
    var id uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT id FROM reviews WHERE event_id = ? AND user_id = ?`, eventID, userID).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrNotFound
    }
    if err != nil {
        return 0, fmt.Errorf("find existing review: %w", err)
    }
    return id, nil
}

// SetApproval toggles a review's visibility and recomputes the aggregate
// of its event.
func (r *ReviewRepo) SetApproval(ctx context.Context, id uint64, approved bool) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var eventID uint64
    err = tx.QueryRowContext(ctx, `SELECT event_id FROM reviews WHERE id = ? FOR UPDATE`, id).Scan(&eventID)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    if err != nil {
        return fmt.Errorf("lock review: %w", err)
    }
    if _, err := tx.ExecContext(ctx, `UPDATE reviews SET is_approved = ? WHERE id = ?`, approved, id); err != nil {
        return fmt.Errorf("update review: %w", err)
    }
    if _, err := tx.ExecContext(ctx, recomputeSQL, eventID); err != nil {
        return fmt.Errorf("recompute rating: %w", err)
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID returns a single review or ErrNotFound.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
    rv, err := scanReview(r.db.QueryRowContext(ctx, reviewSelect+` WHERE r.id = ?`, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, fmt.Errorf("get review: %w", err)
    }
    return &rv, nil
}

// ListApprovedByEvent returns the visible reviews of an event, newest first.
// Anonymous reviews carry no user name.
func (r *ReviewRepo) ListApprovedByEvent(ctx context.Context, eventID uint64) ([]model.Review, error) {
    rows, err := r.db.QueryContext(ctx,
        reviewSelect+` WHERE r.event_id = ? AND r.is_approved = 1 ORDER BY r.created_at DESC, r.id DESC`, eventID)
    if err != nil {
        return nil, fmt.Errorf("list reviews: %w", err)
    }
    defer rows.Close()
    out := make([]model.Review, 0)
    for rows.Next() {
        rv, err := scanReview(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, rv)
    }
    return out, rows.Err()
}
