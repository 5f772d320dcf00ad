package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing. 10 is bcrypt's
// default and the cost every stored hash in this system uses.
const bcryptCost = 10

const maxPasswordLength = 72 // bcrypt hashes at most 72 bytes

// HashPassword derives a salted one-way hash of password. Empty and
// oversized passwords are rejected up front; bcrypt would otherwise
// silently truncate past 72 bytes.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	if len(password) > maxPasswordLength {
		return "", fmt.Errorf("password exceeds %d bytes", maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. bcrypt's
// comparison is constant-time; a malformed hash verifies as false
// rather than erroring.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
