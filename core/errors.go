package core

import (
	"errors"
	"fmt"
)

// Error categories. Every domain error wraps exactly one of these so callers
// can classify with errors.Is without knowing the specific rule that failed.
var (
	// ErrValidation marks input rejected before any state mutation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced record that does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict marks a business-state conflict. Conflicts are surfaced to
	// the caller and never silently retried.
	ErrConflict = errors.New("conflict")
)

// Specific business rule violations.
var (
	ErrCopyUnavailable      = fmt.Errorf("%w: copy is not available for checkout", ErrConflict)
	ErrMemberIneligible     = fmt.Errorf("%w: member is not eligible", ErrConflict)
	ErrLoanAlreadyClosed    = fmt.Errorf("%w: loan is already closed", ErrConflict)
	ErrInvalidState         = fmt.Errorf("%w: operation not allowed in current state", ErrConflict)
	ErrDuplicateReservation = fmt.Errorf("%w: member already has a pending reservation for this book", ErrConflict)
)

// ValidationError builds a field-scoped validation error.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err marks a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a business-state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
