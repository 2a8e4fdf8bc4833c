package cancelreservation

import (
	"github.com/libreshelf/circulation-go/core"
)

// state is the snapshot of the records the decision depends on.
type state struct {
	reservation core.Reservation
}

// Decide implements the business logic of cancelling a reservation. It is a
// pure function over the snapshot and the command.
//
// Business Rules:
//
//	GIVEN: A reservation
//	WHEN: CancelReservation command is received
//	THEN: the reservation transitions Pending -> Cancelled
//	ERROR: ErrInvalidState if the reservation is not Pending
func Decide(s state, command Command) core.DecisionResult {
	if !s.reservation.Status.CanTransitionTo(core.ReservationCancelledStatus) {
		return core.ErrorDecision(core.ErrInvalidState)
	}

	return core.SuccessDecision(
		core.BuildReservationCancelled(command.ReservationID, command.OccurredAt),
	)
}
