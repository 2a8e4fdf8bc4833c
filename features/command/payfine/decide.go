package payfine

import (
	"github.com/libreshelf/circulation-go/core"
)

// state is the snapshot of the records the decision depends on.
type state struct {
	fine core.Fine
}

// Decide implements the business logic of paying a fine. Payment is
// all-or-nothing: the tendered amount must match the fine amount exactly.
//
// Business Rules:
//
//	GIVEN: A fine
//	WHEN: PayFine command is received
//	THEN: the fine transitions Outstanding -> Paid with the payment date
//	IDEMPOTENT: the fine is already Paid
//	ERROR: ErrValidation if the tendered amount differs from the fine amount
//	ERROR: ErrInvalidState if the fine is Waived
func Decide(s state, command Command) core.DecisionResult {
	if s.fine.Status == core.FinePaidStatus {
		return core.IdempotentDecision()
	}

	if s.fine.Status != core.FineOutstanding {
		return core.ErrorDecision(core.ErrInvalidState)
	}

	if command.Amount != s.fine.Amount {
		return core.ErrorDecision(core.ValidationError("amount", "must equal the fine amount, partial payment is not supported"))
	}

	return core.SuccessDecision(
		core.BuildFinePaid(command.FineID, s.fine.Amount, command.OccurredAt),
	)
}
