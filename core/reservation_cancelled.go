package core

import (
	"time"

	"github.com/google/uuid"
)

// ReservationCancelledEventType is the event type identifier.
const ReservationCancelledEventType = "ReservationCancelled"

// ReservationCancelled represents a pending reservation cancelled by its member.
type ReservationCancelled struct {
	EventType     string
	ReservationID string
	OccurredAt    OccurredAtTS
}

// BuildReservationCancelled creates a new ReservationCancelled event.
func BuildReservationCancelled(reservationID uuid.UUID, occurredAt time.Time) ReservationCancelled {
	return ReservationCancelled{
		EventType:     ReservationCancelledEventType,
		ReservationID: reservationID.String(),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationCancelled) IsEventType() string {
	return ReservationCancelledEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
