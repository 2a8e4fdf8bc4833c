package core

import (
	"time"

	"github.com/google/uuid"
)

// FineStatus is the closed set of states a fine can be in. Payment is
// all-or-nothing; there is no partial-payment tracking.
type FineStatus string

const (
	FineOutstanding FineStatus = "Outstanding"
	FinePaidStatus  FineStatus = "Paid"
	FineWaivedStatus      FineStatus = "Waived"
)

// IsValid reports whether the status is one of the known fine states.
func (s FineStatus) IsValid() bool {
	switch s {
	case FineOutstanding, FinePaidStatus, FineWaivedStatus:
		return true
	}

	return false
}

// ReasonLateReturn is the reason recorded for fines assessed on late
// returns. The store holds a unique index on (loan_id) for this reason, so
// assessing the same loan twice can never create a second fine.
const ReasonLateReturn = "late return"

// Fine is a monetary penalty tied to a Member and optionally a Loan.
type Fine struct {
	ID          uuid.UUID
	MemberID    uuid.UUID
	LoanID      *uuid.UUID
	Amount      Cents
	Reason      string
	Status      FineStatus
	IssuedAt    time.Time
	PaymentDate *time.Time
}

// LateFee computes the fee for a late return. It is a pure function of its
// inputs: dates are compared by calendar day, the grace period shifts the
// point where fees start to accrue, and the result is never negative.
//
//	daysLate <= gracePeriodDays  -> 0
//	otherwise                    -> ratePerDay * (daysLate - gracePeriodDays)
func LateFee(dueDate, returnedAt time.Time, ratePerDay Cents, gracePeriodDays int) Cents {
	daysLate := DaysBetween(dueDate, returnedAt)
	if daysLate <= gracePeriodDays {
		return 0
	}

	return ratePerDay * Cents(daysLate-gracePeriodDays)
}
