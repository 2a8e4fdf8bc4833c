package updatemembership

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "UpdateMembership"

// Command represents a staff action changing a membership status, e.g.
// suspending a member or reactivating an expired membership.
type Command struct {
	MemberID   uuid.UUID
	StaffID    uuid.UUID
	NewStatus  core.MembershipStatus
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(memberID, staffID uuid.UUID, newStatus core.MembershipStatus, occurredAt time.Time) Command {
	return Command{
		MemberID:   memberID,
		StaffID:    staffID,
		NewStatus:  newStatus,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
