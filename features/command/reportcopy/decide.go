package reportcopy

import (
	"github.com/libreshelf/circulation-go/core"
)

// state is the snapshot of the records the decision depends on.
type state struct {
	copy core.BookCopy
}

// Decide implements the business logic of a staff copy report. Reports step
// outside the circulation lifecycle: Lost and Damaged are reachable from any
// state, and only the manual reset back to Available leads out of them.
//
// Business Rules:
//
//	GIVEN: A copy
//	WHEN: ReportCopy command is received
//	THEN: the copy moves to the reported status
//	IDEMPOTENT: the copy is already in the reported status
//	ERROR: ErrValidation if the reported status is not Lost, Damaged or
//	       Available
//	ERROR: ErrInvalidState when resetting a copy that is not Lost or Damaged
func Decide(s state, command Command) core.DecisionResult {
	switch command.ReportedStatus {
	case core.CopyLost, core.CopyDamaged, core.CopyAvailable:
		// allowed report targets
	default:
		return core.ErrorDecision(core.ValidationError("status", "must be Lost, Damaged or Available"))
	}

	if s.copy.Status == command.ReportedStatus {
		return core.IdempotentDecision()
	}

	if command.ReportedStatus == core.CopyAvailable &&
		s.copy.Status != core.CopyLost && s.copy.Status != core.CopyDamaged {
		return core.ErrorDecision(core.ErrInvalidState)
	}

	return core.SuccessDecision(
		core.BuildCopyReported(command.CopyID, command.StaffID, command.ReportedStatus, command.OccurredAt),
	)
}
