package core

import (
	"time"

	"github.com/google/uuid"
)

// ReservationExpiredEventType is the event type identifier.
const ReservationExpiredEventType = "ReservationExpired"

// ReservationExpired represents a reservation expired by the periodic sweep,
// either a pending reservation past its expiration date or a fulfilled
// reservation whose copy went unclaimed past the pickup window. In the
// latter case ReleasedCopyID names the copy that went back to Available.
type ReservationExpired struct {
	EventType      string
	ReservationID  string
	ReleasedCopyID string // empty for pending reservations
	OccurredAt     OccurredAtTS
}

// BuildReservationExpired creates a new ReservationExpired event.
func BuildReservationExpired(reservationID, releasedCopyID uuid.UUID, occurredAt time.Time) ReservationExpired {
	released := ""
	if releasedCopyID != uuid.Nil {
		released = releasedCopyID.String()
	}

	return ReservationExpired{
		EventType:      ReservationExpiredEventType,
		ReservationID:  reservationID.String(),
		ReleasedCopyID: released,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationExpired) IsEventType() string {
	return ReservationExpiredEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationExpired) HasOccurredAt() time.Time {
	return e.OccurredAt
}
