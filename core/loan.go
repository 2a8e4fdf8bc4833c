package core

import (
	"time"

	"github.com/google/uuid"
)

// Loan links one Member to one BookCopy for the interval
// [CheckoutDate, DueDate], optionally closed by ReturnDate. At most one open
// loan may exist per copy at any time; the store backs this with a partial
// unique index on the copy id where return_date is null.
type Loan struct {
	ID           uuid.UUID
	CopyID       uuid.UUID
	MemberID     uuid.UUID
	CheckoutDate time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
}

// IsOpen reports whether the loan has not been returned yet.
func (l Loan) IsOpen() bool {
	return l.ReturnDate == nil
}

// Validate enforces the loan date invariants.
func (l Loan) Validate() error {
	if !l.DueDate.After(l.CheckoutDate) {
		return ValidationError("due_date", "must be after checkout_date")
	}

	if l.ReturnDate != nil && l.ReturnDate.Before(l.CheckoutDate) {
		return ValidationError("return_date", "must not be before checkout_date")
	}

	return nil
}
