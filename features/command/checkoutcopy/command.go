package checkoutcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const (
	commandType = "CheckOutCopy"

	// DefaultLoanPeriodDays is used when the command does not specify a
	// loan period.
	DefaultLoanPeriodDays = 14
)

// Command represents the intent to check a copy out to a member. LoanID is
// assigned when the command is built so retries write the same loan row.
type Command struct {
	LoanID         uuid.UUID
	CopyID         uuid.UUID
	MemberID       uuid.UUID
	LoanPeriodDays int
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID, memberID uuid.UUID, loanPeriodDays int, occurredAt time.Time) Command {
	if loanPeriodDays <= 0 {
		loanPeriodDays = DefaultLoanPeriodDays
	}

	return Command{
		LoanID:         uuid.New(),
		CopyID:         copyID,
		MemberID:       memberID,
		LoanPeriodDays: loanPeriodDays,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
