package utils

import (
    "regexp"
    "testing"

    "golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
    hash, err := HashPassword("gizli-parola", bcrypt.MinCost)
    if err != nil {
        t.Fatal(err)
    }
    if !VerifyPassword(hash, "gizli-parola") {
        t.Fatal("correct password rejected")
    }
    if VerifyPassword(hash, "yanlis") {
        t.Fatal("wrong password accepted")
    }
}

func TestSecretEqual(t *testing.T) {
    if !SecretEqual("admin-pass", "admin-pass") {
        t.Fatal("equal secrets differ")
    }
    if SecretEqual("admin-pass", "admin-pas") {
        t.Fatal("different secrets match")
    }
    if SecretEqual("", "") {
        t.Fatal("empty expected secret must never match")
    }
}

func TestVerificationCode(t *testing.T) {
    six := regexp.MustCompile(`^[0-9]{6}$`)
    for i := 0; i < 50; i++ {
        code, err := NewVerificationCode()
        if err != nil {
            t.Fatal(err)
        }
        if !six.MatchString(code) {
            t.Fatalf("code %q is not six digits", code)
        }
    }
}
