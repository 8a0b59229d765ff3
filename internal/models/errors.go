package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an asset, user, catalog entry or allocation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAllocated is returned when allocating an asset held by another user.
	ErrAlreadyAllocated = errors.New("asset already allocated")

	// ErrNotAllocated is returned when returning an asset with no open allocation.
	ErrNotAllocated = errors.New("asset not allocated")

	// ErrReferentialConflict is returned when a delete would orphan live references.
	ErrReferentialConflict = errors.New("referential conflict")

	// ErrValidation marks malformed or inconsistent input.
	ErrValidation = errors.New("validation error")

	// ErrDuplicate is a validation error for a violated natural key.
	ErrDuplicate = fmt.Errorf("%w: duplicate", ErrValidation)
)

// Invalid returns a validation error with the given message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
