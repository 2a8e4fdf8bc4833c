package core

import (
	"time"

	"github.com/google/uuid"
)

// BookReservedEventType is the event type identifier.
const BookReservedEventType = "BookReserved"

// BookReserved represents a new pending reservation on a book.
type BookReserved struct {
	EventType      string
	ReservationID  string
	BookID         string
	MemberID       string
	ExpirationDate time.Time
	OccurredAt     OccurredAtTS
}

// BuildBookReserved creates a new BookReserved event.
func BuildBookReserved(reservationID, bookID, memberID uuid.UUID, expirationDate, occurredAt time.Time) BookReserved {
	return BookReserved{
		EventType:      BookReservedEventType,
		ReservationID:  reservationID.String(),
		BookID:         bookID.String(),
		MemberID:       memberID.String(),
		ExpirationDate: ToOccurredAt(expirationDate),
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReserved) IsEventType() string {
	return BookReservedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReserved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
