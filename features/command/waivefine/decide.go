package waivefine

import (
	"github.com/libreshelf/circulation-go/core"
)

// state is the snapshot of the records the decision depends on.
type state struct {
	fine core.Fine
}

// Decide implements the business logic of waiving a fine.
//
// Business Rules:
//
//	GIVEN: A fine
//	WHEN: WaiveFine command is received
//	THEN: the fine transitions Outstanding -> Waived
//	IDEMPOTENT: the fine is already Waived
//	ERROR: ErrInvalidState if the fine is Paid
func Decide(s state, command Command) core.DecisionResult {
	if s.fine.Status == core.FineWaivedStatus {
		return core.IdempotentDecision()
	}

	if s.fine.Status != core.FineOutstanding {
		return core.ErrorDecision(core.ErrInvalidState)
	}

	return core.SuccessDecision(
		core.BuildFineWaived(command.FineID, command.StaffID, command.OccurredAt),
	)
}
