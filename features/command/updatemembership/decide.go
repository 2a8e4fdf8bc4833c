package updatemembership

import (
	"github.com/libreshelf/circulation-go/core"
)

// state is the snapshot of the records the decision depends on.
type state struct {
	member core.Member
}

// Decide implements the business logic of a membership status change.
// Members are never physically deleted; Expired and Suspended act as
// soft-delete markers and can be reactivated by staff.
//
// Business Rules:
//
//	GIVEN: A member
//	WHEN: UpdateMembership command is received
//	THEN: the membership moves to the new status
//	IDEMPOTENT: the membership is already in the new status
//	ERROR: ErrValidation if the new status is not a known membership state
func Decide(s state, command Command) core.DecisionResult {
	if !command.NewStatus.IsValid() {
		return core.ErrorDecision(core.ValidationError("status", "must be Active, Expired or Suspended"))
	}

	if s.member.Status == command.NewStatus {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildMembershipStatusChanged(command.MemberID, s.member.Status, command.NewStatus, command.OccurredAt),
	)
}
