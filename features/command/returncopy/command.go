package returncopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "ReturnCopy"

// Command represents the intent to return a checked-out copy. FineID is
// assigned when the command is built so a retry that assesses a late fee
// writes the same fine row.
type Command struct {
	LoanID     uuid.UUID
	FineID     uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		FineID:     uuid.New(),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
