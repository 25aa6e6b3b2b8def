// FrancescoMazzola | 2026
// errors.go

package core

import "errors"

// Sentinel errors shared across layers. Repositories and services wrap these
// with fmt.Errorf("...: %w", err) context; handlers map them to HTTP status
// codes with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a request that fails validation and must not
	// be retried unchanged.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller's resolved capabilities are
	// insufficient, or no permission row exists at all.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates a missing or unusable caller identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateKey indicates a unique constraint violation.
	ErrDuplicateKey = errors.New("duplicate key")
)
