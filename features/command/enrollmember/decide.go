package enrollmember

import (
	"strings"
	"time"

	"github.com/libreshelf/circulation-go/core"
)

// Decide validates the enrollment input. There is no prior state to consult;
// uniqueness of the email is enforced by the store.
//
// Business Rules:
//
//	GIVEN: Name and email of a new member
//	WHEN: EnrollMember command is received
//	THEN: an Active membership is created, expiring after the period
//	ERROR: ErrValidation on empty name or malformed email
func Decide(command Command) core.DecisionResult {
	if strings.TrimSpace(command.Name) == "" {
		return core.ErrorDecision(core.ValidationError("name", "must not be empty"))
	}

	if err := core.ValidateEmail(command.Email); err != nil {
		return core.ErrorDecision(err)
	}

	expiresAt := command.OccurredAt.Add(time.Duration(command.MembershipPeriodDays) * 24 * time.Hour)

	return core.SuccessDecision(
		core.BuildMemberEnrolled(command.MemberID, command.Email, expiresAt, command.OccurredAt),
	)
}
