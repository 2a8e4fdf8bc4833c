package reportcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "ReportCopy"

// Command represents a staff report moving a copy to Lost or Damaged, or
// resetting a Lost/Damaged copy back to Available after recovery or repair.
type Command struct {
	CopyID         uuid.UUID
	StaffID        uuid.UUID
	ReportedStatus core.CopyStatus
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID, staffID uuid.UUID, reportedStatus core.CopyStatus, occurredAt time.Time) Command {
	return Command{
		CopyID:         copyID,
		StaffID:        staffID,
		ReportedStatus: reportedStatus,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
