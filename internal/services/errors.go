package services

import (
	"errors"
	"fmt"

	"github.com/SaniatAzam/invoice-generator/internal/db"
)

var (
	// ErrDuplicateKey is returned when an invoice number is already taken.
	ErrDuplicateKey = errors.New("invoice number already exists")
	// ErrNotFound is returned when no document matches the key.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps input that fails validation.
	ErrInvalid = errors.New("invalid input")
	// ErrStoreUnavailable wraps connection-level store failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeError wraps a driver error, tagging connection failures with
// ErrStoreUnavailable so callers can tell them apart.
func storeError(op string, err error) error {
	if db.IsUnavailableError(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
