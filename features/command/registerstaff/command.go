package registerstaff

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "RegisterStaff"

// Command represents the intent to register a staff account. The password is
// carried in plain text only between the caller and the handler, which
// stores a bcrypt hash.
type Command struct {
	StaffID    uuid.UUID
	Name       string
	Email      string
	Password   string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(name, email, password string, occurredAt time.Time) Command {
	return Command{
		StaffID:    uuid.New(),
		Name:       name,
		Email:      email,
		Password:   password,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
