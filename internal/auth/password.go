// Package auth provides one-way password hashing and verification for
// device credentials.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor for newly provisioned credentials.
const HashCost = 10

// Verifier errors.
var (
	ErrEmptyPassword = errors.New("password must not be empty")
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// Comparison is constant-time with respect to the password. A malformed
// stored hash verifies as a non-match; it never propagates an error, so an
// unreadable credential always fails closed.
func VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
