package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyReturnedEventType is the event type identifier.
const CopyReturnedEventType = "CopyReturned"

// CopyReturned represents the closing of an open loan. NextCopyStatus is
// Available unless a pending reservation was fulfilled by this return, in
// which case it is Reserved and FulfilledReservationID names the oldest
// pending reservation that was bound to the copy. A positive FineAmount
// means a late fee was assessed.
type CopyReturned struct {
	EventType              string
	LoanID                 string
	CopyID                 string
	MemberID               string
	NextCopyStatus         CopyStatus
	FulfilledReservationID string // empty when no reservation was fulfilled
	DaysLate               int
	FineAmount             Cents
	OccurredAt             OccurredAtTS
}

// BuildCopyReturned creates a new CopyReturned event.
func BuildCopyReturned(
	loanID uuid.UUID,
	copyID uuid.UUID,
	memberID uuid.UUID,
	nextCopyStatus CopyStatus,
	fulfilledReservationID uuid.UUID,
	daysLate int,
	fineAmount Cents,
	occurredAt time.Time,
) CopyReturned {

	fulfilled := ""
	if fulfilledReservationID != uuid.Nil {
		fulfilled = fulfilledReservationID.String()
	}

	return CopyReturned{
		EventType:              CopyReturnedEventType,
		LoanID:                 loanID.String(),
		CopyID:                 copyID.String(),
		MemberID:               memberID.String(),
		NextCopyStatus:         nextCopyStatus,
		FulfilledReservationID: fulfilled,
		DaysLate:               daysLate,
		FineAmount:             fineAmount,
		OccurredAt:             ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyReturned) IsEventType() string {
	return CopyReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
