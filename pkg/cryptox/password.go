// Package cryptox provides password hashing for the assets service.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the fixed bcrypt cost factor. Changing it only affects newly
// written hashes; verification reads the cost from the stored hash.
const HashCost = 10

// MinPasswordLength is enforced before hashing on every password write path.
const MinPasswordLength = 6

var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

// ErrMismatch is returned by VerifyPassword when the plaintext does not
// match the stored hash.
var ErrMismatch = errors.New("password does not match")

// HashPassword returns a bcrypt hash of the plaintext with a fresh salt.
// The plaintext is never persisted anywhere.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// A mismatch returns ErrMismatch, never a panic.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
