package reservebook

import (
	"time"

	"github.com/libreshelf/circulation-go/core"
)

// state is the snapshot of the records the decision depends on.
type state struct {
	member                core.Member
	bookExists            bool
	hasPendingReservation bool
}

// Decide implements the business logic of reserving a book. It is a pure
// function over the snapshot and the command. Copy availability is not
// checked: reservations queue for fulfillment, which happens when a copy of
// the book is returned.
//
// Business Rules:
//
//	GIVEN: A book and a member
//	WHEN: ReserveBook command is received
//	THEN: a Pending reservation is created, expiring after the window
//	ERROR: ErrNotFound if the book does not exist
//	ERROR: ErrMemberIneligible if the member is not Active
//	ERROR: ErrDuplicateReservation if the member already has a pending
//	       reservation for this book
func Decide(s state, command Command) core.DecisionResult {
	if !s.bookExists {
		return core.ErrorDecision(core.ErrNotFound)
	}

	if !s.member.CanBorrow() {
		return core.ErrorDecision(core.ErrMemberIneligible)
	}

	if s.hasPendingReservation {
		return core.ErrorDecision(core.ErrDuplicateReservation)
	}

	expiration := command.OccurredAt.Add(time.Duration(command.ReservationWindowDays) * 24 * time.Hour)

	return core.SuccessDecision(core.BuildBookReserved(
		command.ReservationID,
		command.BookID,
		command.MemberID,
		expiration,
		command.OccurredAt,
	))
}
