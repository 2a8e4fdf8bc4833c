package addbookcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "AddBookCopy"

// Command represents the intent to add a physical copy of a catalog book.
// CopyID is assigned when the command is built so retries write the same
// copy row.
type Command struct {
	CopyID     uuid.UUID
	BookID     uuid.UUID
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CopyID:     uuid.New(),
		BookID:     bookID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
