package waivefine

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "WaiveFine"

// Command represents a staff decision to waive an outstanding fine.
type Command struct {
	FineID     uuid.UUID
	StaffID    uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(fineID, staffID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		FineID:     fineID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
