package core

import (
	"time"

	"github.com/google/uuid"
)

// StaffRegisteredEventType is the event type identifier.
const StaffRegisteredEventType = "StaffRegistered"

// StaffRegistered represents a new staff account. The credential hash is
// deliberately not part of the event payload.
type StaffRegistered struct {
	EventType  string
	StaffID    string
	Email      string
	OccurredAt OccurredAtTS
}

// BuildStaffRegistered creates a new StaffRegistered event.
func BuildStaffRegistered(staffID uuid.UUID, email string, occurredAt time.Time) StaffRegistered {
	return StaffRegistered{
		EventType:  StaffRegisteredEventType,
		StaffID:    staffID.String(),
		Email:      email,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e StaffRegistered) IsEventType() string {
	return StaffRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e StaffRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
