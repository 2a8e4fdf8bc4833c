package core

import (
	"time"

	"github.com/google/uuid"
)

// BookAddedEventType is the event type identifier.
const BookAddedEventType = "BookAdded"

// BookAdded represents a new title in the catalog.
type BookAdded struct {
	EventType  string
	BookID     string
	ISBN       string
	Title      string
	OccurredAt OccurredAtTS
}

// BuildBookAdded creates a new BookAdded event.
func BuildBookAdded(bookID uuid.UUID, isbn, title string, occurredAt time.Time) BookAdded {
	return BookAdded{
		EventType:  BookAddedEventType,
		BookID:     bookID.String(),
		ISBN:       isbn,
		Title:      title,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookAdded) IsEventType() string {
	return BookAddedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}
