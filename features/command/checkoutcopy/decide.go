package checkoutcopy

import (
	"time"

	"github.com/libreshelf/circulation-go/core"
)

// Policy holds the configured lending policy parameters.
type Policy struct {
	// FineThreshold is the maximum total of outstanding fines a member may
	// carry and still check out copies.
	FineThreshold core.Cents
}

// state is the snapshot of the records the decision depends on.
type state struct {
	copy             core.BookCopy
	member           core.Member
	outstandingFines core.Cents
	heldReservation  *core.Reservation // fulfilled reservation bound to the copy, if any
}

// Decide implements the business logic of checking out a copy. It is a pure
// function over the snapshot and the command.
//
// Business Rules:
//
//	GIVEN: A copy and a member
//	WHEN: CheckOutCopy command is received
//	THEN: the copy transitions to CheckedOut and an open loan is created
//	ERROR: ErrMemberIneligible if the member is not Active
//	ERROR: ErrMemberIneligible if outstanding fines exceed the policy threshold
//	ERROR: ErrCopyUnavailable if the copy is neither Available nor Reserved
//	       for this member via a fulfilled reservation (claiming)
func Decide(s state, command Command, policy Policy) core.DecisionResult {
	if !s.member.CanBorrow() {
		return core.ErrorDecision(core.ErrMemberIneligible)
	}

	if s.outstandingFines > policy.FineThreshold {
		return core.ErrorDecision(core.ErrMemberIneligible)
	}

	if !copyClaimable(s, command) {
		return core.ErrorDecision(core.ErrCopyUnavailable)
	}

	dueDate := command.OccurredAt.Add(time.Duration(command.LoanPeriodDays) * 24 * time.Hour)

	return core.SuccessDecision(
		core.BuildCopyCheckedOut(command.LoanID, command.CopyID, command.MemberID, dueDate, command.OccurredAt),
	)
}

// copyClaimable reports whether the copy can go to this member: either it is
// Available, or it is Reserved and this member holds the fulfilled
// reservation bound to it.
func copyClaimable(s state, command Command) bool {
	switch s.copy.Status {
	case core.CopyAvailable:
		return true

	case core.CopyReserved:
		return s.heldReservation != nil && s.heldReservation.IsHeldFor(command.CopyID, command.MemberID)
	}

	return false
}
