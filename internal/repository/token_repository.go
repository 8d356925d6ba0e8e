package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"
)

// ErrTokenReused is returned by Consume when an already rotated refresh
// token is presented again.  Every session of its owner is revoked before
// the error is returned.
var ErrTokenReused = errors.New("refresh token reused")

// TokenRepo stores refresh token hashes (utils.HashRefreshRaw); raw tokens
// never reach the database.
type TokenRepo struct {
    db  *sql.DB
    now func() time.Time
}

// NewTokenRepo returns a new TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo {
    return &TokenRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Store records a freshly issued refresh token.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, hash string, exp time.Time) error {
    if _, err := r.db.ExecContext(ctx,
        `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
        userID, hash, exp.UTC()); err != nil {
        return fmt.Errorf("store refresh token: %w", err)
    }
    return nil
}

// Consume spends a refresh token: the row is locked, checked and revoked in
// one transaction, so two concurrent refreshes with the same token cannot
// both succeed.  Unknown and expired tokens give ErrNotFound.
func (r *TokenRepo) Consume(ctx context.Context, hash string) (uint64, error) {
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

    var (
        userID    uint64
        expiresAt time.Time
        revokedAt sql.NullTime
    )
    err = tx.QueryRowContext(ctx,
        `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? FOR UPDATE`,
        hash).Scan(&userID, &expiresAt, &revokedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrNotFound
    }
    if err != nil {
        return 0, fmt.Errorf("lock refresh token: %w", err)
    }

    if revokedAt.Valid {
        if err := revokeUser(ctx, tx, userID); err != nil {
            return 0, err
        }
        if err := tx.Commit(); err != nil {
            return 0, err
        }
        committed = true
        return 0, ErrTokenReused
    }
    if !r.now().Before(expiresAt) {
        return 0, ErrNotFound
    }

    if _, err := tx.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ?`, hash); err != nil {
        return 0, fmt.Errorf("revoke refresh token: %w", err)
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return userID, nil
}

// Revoke ends the session of one refresh token.  It returns ErrNotFound
// when the token is unknown or already revoked.
func (r *TokenRepo) Revoke(ctx context.Context, hash string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`, hash)
    if err != nil {
        return fmt.Errorf("revoke refresh token: %w", err)
    }
    return expectRow(res)
}

// RevokeUser ends every session of a user, e.g. on logout-everywhere or
// when an admin deactivates the account.
func (r *TokenRepo) RevokeUser(ctx context.Context, userID uint64) error {
    return revokeUser(ctx, r.db, userID)
}

func revokeUser(ctx context.Context, q querier, userID uint64) error {
    if _, err := q.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE user_id = ? AND revoked_at IS NULL`,
        userID); err != nil {
        return fmt.Errorf("revoke user sessions: %w", err)
    }
    return nil
}

// PurgeExpired deletes tokens that expired or were revoked before cutoff
// and returns how many rows went.
func (r *TokenRepo) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
    cutoff = cutoff.UTC()
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM refresh_tokens WHERE expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)`,
        cutoff, cutoff)
    if err != nil {
        return 0, fmt.Errorf("purge refresh tokens: %w", err)
    }
    return res.RowsAffected()
}
