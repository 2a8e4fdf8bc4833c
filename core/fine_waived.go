package core

import (
	"time"

	"github.com/google/uuid"
)

// FineWaivedEventType is the event type identifier.
const FineWaivedEventType = "FineWaived"

// FineWaived represents a fine waived by a staff member.
type FineWaived struct {
	EventType  string
	FineID     string
	StaffID    string
	OccurredAt OccurredAtTS
}

// BuildFineWaived creates a new FineWaived event.
func BuildFineWaived(fineID, staffID uuid.UUID, occurredAt time.Time) FineWaived {
	return FineWaived{
		EventType:  FineWaivedEventType,
		FineID:     fineID.String(),
		StaffID:    staffID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FineWaived) IsEventType() string {
	return FineWaivedEventType
}

// HasOccurredAt returns when this event occurred.
func (e FineWaived) HasOccurredAt() time.Time {
	return e.OccurredAt
}
