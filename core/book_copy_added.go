package core

import (
	"time"

	"github.com/google/uuid"
)

// BookCopyAddedEventType is the event type identifier.
const BookCopyAddedEventType = "BookCopyAdded"

// BookCopyAdded represents a new physical copy entering circulation.
type BookCopyAdded struct {
	EventType  string
	CopyID     string
	BookID     string
	OccurredAt OccurredAtTS
}

// BuildBookCopyAdded creates a new BookCopyAdded event.
func BuildBookCopyAdded(copyID, bookID uuid.UUID, occurredAt time.Time) BookCopyAdded {
	return BookCopyAdded{
		EventType:  BookCopyAddedEventType,
		CopyID:     copyID.String(),
		BookID:     bookID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyAdded) IsEventType() string {
	return BookCopyAddedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}
