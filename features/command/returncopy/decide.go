package returncopy

import (
	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// Policy holds the configured late-fee policy parameters.
type Policy struct {
	// RatePerDay is charged for every late day past the grace period.
	RatePerDay core.Cents

	// GracePeriodDays shifts the point where late fees start to accrue.
	GracePeriodDays int
}

// state is the snapshot of the records the decision depends on.
type state struct {
	loan            core.Loan
	copy            core.BookCopy
	nextReservation *core.Reservation // oldest pending reservation for the book, if any
}

// Decide implements the business logic of returning a copy. It is a pure
// function over the snapshot and the command.
//
// Business Rules:
//
//	GIVEN: An open loan and its checked-out copy
//	WHEN: ReturnCopy command is received
//	THEN: the loan closes; the copy goes to Reserved when the oldest pending
//	      reservation for the book is fulfilled by this return, otherwise to
//	      Available; a late fee is assessed when the return is past the due
//	      date plus grace period
//	ERROR: ErrLoanAlreadyClosed if the loan has a return date
//	ERROR: ErrInvalidState if the copy is not CheckedOut
//	ERROR: ErrValidation if the return timestamp lies before the checkout date
func Decide(s state, command Command, policy Policy) core.DecisionResult {
	if !s.loan.IsOpen() {
		return core.ErrorDecision(core.ErrLoanAlreadyClosed)
	}

	if s.copy.Status != core.CopyCheckedOutStatus {
		return core.ErrorDecision(core.ErrInvalidState)
	}

	if command.OccurredAt.Before(s.loan.CheckoutDate) {
		return core.ErrorDecision(core.ValidationError("return_date", "must not be before the checkout date"))
	}

	daysLate := core.DaysBetween(s.loan.DueDate, command.OccurredAt)
	if daysLate < 0 {
		daysLate = 0
	}

	fineAmount := core.LateFee(s.loan.DueDate, command.OccurredAt, policy.RatePerDay, policy.GracePeriodDays)

	nextStatus := core.CopyAvailable
	fulfilledReservationID := uuid.Nil

	if s.nextReservation != nil {
		nextStatus = core.CopyReserved
		fulfilledReservationID = s.nextReservation.ID
	}

	return core.SuccessDecision(core.BuildCopyReturned(
		command.LoanID,
		s.loan.CopyID,
		s.loan.MemberID,
		nextStatus,
		fulfilledReservationID,
		daysLate,
		fineAmount,
		command.OccurredAt,
	))
}
