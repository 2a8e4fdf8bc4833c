package enrollmember

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const (
	commandType = "EnrollMember"

	// DefaultMembershipPeriodDays is used when the command does not specify
	// a membership period.
	DefaultMembershipPeriodDays = 365
)

// Command represents the intent to enroll a new member. MemberID is assigned
// when the command is built so retries write the same member row.
type Command struct {
	MemberID             uuid.UUID
	Name                 string
	Email                string
	MembershipPeriodDays int
	OccurredAt           core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(name, email string, membershipPeriodDays int, occurredAt time.Time) Command {
	if membershipPeriodDays <= 0 {
		membershipPeriodDays = DefaultMembershipPeriodDays
	}

	return Command{
		MemberID:             uuid.New(),
		Name:                 name,
		Email:                email,
		MembershipPeriodDays: membershipPeriodDays,
		OccurredAt:           core.ToOccurredAt(occurredAt),
	}
}
