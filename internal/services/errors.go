package services

import (
	"errors"
	"fmt"

	"wishbase/internal/repositories"
)

// Typed service errors. Handlers translate these into stable response
// codes; nothing in this package is fatal to the process.
var (
	// ErrUserExists: registration conflict on (project, email).
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong
	// password so callers cannot probe for account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionInvalid covers missing, expired, revoked and tampered
	// sessions alike.
	ErrSessionInvalid = errors.New("invalid or expired session")
	// ErrItemExists: the (user, item) pair is already wishlisted.
	ErrItemExists = errors.New("item already in wishlist")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	// ErrStorageUnavailable wraps unexpected storage failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// storageErr maps storage failures that are not part of the operation's
// contract onto ErrStorageUnavailable, keeping driver details out of
// the service API.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

// isNotFound reports whether err is the storage-level missing-row
// sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
