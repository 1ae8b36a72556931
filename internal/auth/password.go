package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooShort rejects passwords under minPasswordLength.
var ErrPasswordTooShort = errors.New("password needs at least 8 characters")

const (
	minPasswordLength = 8
	bcryptCost        = 12
)

// HashPassword derives the stored credential for a plaintext password.
// Passwords under minPasswordLength are rejected before hashing.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a stored hash against a login attempt. A non-nil
// error means the attempt must be refused.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
