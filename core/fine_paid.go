package core

import (
	"time"

	"github.com/google/uuid"
)

// FinePaidEventType is the event type identifier.
const FinePaidEventType = "FinePaid"

// FinePaid represents full payment of an outstanding fine.
type FinePaid struct {
	EventType  string
	FineID     string
	Amount     Cents
	OccurredAt OccurredAtTS
}

// BuildFinePaid creates a new FinePaid event.
func BuildFinePaid(fineID uuid.UUID, amount Cents, occurredAt time.Time) FinePaid {
	return FinePaid{
		EventType:  FinePaidEventType,
		FineID:     fineID.String(),
		Amount:     amount,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FinePaid) IsEventType() string {
	return FinePaidEventType
}

// HasOccurredAt returns when this event occurred.
func (e FinePaid) HasOccurredAt() time.Time {
	return e.OccurredAt
}
