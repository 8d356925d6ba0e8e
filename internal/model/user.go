package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Phone is stored in its normalised national form (10 digits,
// no leading zero) so that login can match any common spelling.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Phone        – unique normalised phone number.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – inactive users cannot log in.
type User struct {
    ID           uint64    `json:"id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    Phone        string    `json:"phone"`
    PasswordHash string    `json:"-"`
    City         *string   `json:"city"`
    Bio          *string   `json:"bio"`
    AvatarURL    *string   `json:"avatarUrl"`
    IsActive     bool      `json:"isActive"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is not stored; only its SHA-256 hash.
type RefreshToken struct {
    ID        uint64
    UserID    uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
