package utils

import (
    "crypto/subtle"

    "golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
    b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// SecretEqual compares two shared secrets in constant time.  An empty
// expected value never matches.
func SecretEqual(expected, given string) bool {
    if expected == "" {
        return false
    }
    return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
