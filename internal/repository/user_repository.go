package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
    ErrEmailExists = errors.New("email already exists")
    ErrPhoneExists = errors.New("phone already exists")
)

const userColumns = "id,name,email,phone,password_hash,city,bio,avatar_url,is_active,created_at,updated_at"

func scanUser(s rowScanner) (model.User, error) {
    var (
        u              model.User
        city, bio, url sql.NullString
    )
    err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &city, &bio, &url, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        return u, err
    }
    u.City, u.Bio, u.AvatarURL = strPtr(city), strPtr(bio), strPtr(url)
    return u, nil
}

// Create inserts user and returns its ID.  Email is lower-cased and phone
// is stored in normalised national form.
func (r *UserRepo) Create(ctx context.Context, name, email, phone, password string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    phone = utils.NormalizePhone(phone)
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (name, email, phone, password_hash) VALUES (?,?,?,?)",
        strings.TrimSpace(name), email, phone, hash)
    if err != nil {
        if isDuplicate(err) {
            if strings.Contains(strings.ToLower(err.Error()), "phone") {
                return 0, ErrPhoneExists
            }
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByPhone fetches a user by phone in any common spelling.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
    return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE phone=? LIMIT 1", utils.NormalizePhone(phone))
}

// GetByIdentifier treats identifiers containing "@" as email addresses and
// everything else as phone numbers.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
    if strings.Contains(identifier, "@") {
        return r.GetByEmail(ctx, identifier)
    }
    return r.GetByPhone(ctx, identifier)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
    u, err := scanUser(r.DB.QueryRowContext(ctx, q, arg))
    if errors.Is(err, sql.ErrNoRows) {
        return u, ErrNotFound
    }
    return u, err
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
    if err != nil {
        return nil, fmt.Errorf("list users: %w", err)
    }
    defer rows.Close()
    out := make([]model.User, 0)
    for rows.Next() {
        u, err := scanUser(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, u)
    }
    return out, rows.Err()
}

// SetActive enables or disables a user account.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
    res, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=?, updated_at=UTC_TIMESTAMP() WHERE id=?", active, id)
    if err != nil {
        return err
    }
    return expectRow(res)
}

// Delete removes a user; tokens, reviews and favorites cascade.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
    if err != nil {
        return err
    }
    return expectRow(res)
}
