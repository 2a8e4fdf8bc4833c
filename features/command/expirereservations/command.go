package expirereservations

import (
	"time"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "ExpireReservations"

// Command triggers one sweep pass at the given instant.
type Command struct {
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command for a sweep at the given time.
func BuildCommand(occurredAt time.Time) Command {
	return Command{OccurredAt: core.ToOccurredAt(occurredAt)}
}
