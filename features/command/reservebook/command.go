package reservebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const (
	commandType = "ReserveBook"

	// DefaultReservationWindowDays is used when the command does not specify
	// a reservation window.
	DefaultReservationWindowDays = 30
)

// Command represents the intent to reserve a book for a member.
// ReservationID is assigned when the command is built so retries write the
// same reservation row.
type Command struct {
	ReservationID         uuid.UUID
	BookID                uuid.UUID
	MemberID              uuid.UUID
	ReservationWindowDays int
	OccurredAt            core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID, memberID uuid.UUID, reservationWindowDays int, occurredAt time.Time) Command {
	if reservationWindowDays <= 0 {
		reservationWindowDays = DefaultReservationWindowDays
	}

	return Command{
		ReservationID:         uuid.New(),
		BookID:                bookID,
		MemberID:              memberID,
		ReservationWindowDays: reservationWindowDays,
		OccurredAt:            core.ToOccurredAt(occurredAt),
	}
}
