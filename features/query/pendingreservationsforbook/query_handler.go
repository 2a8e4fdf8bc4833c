package pendingreservationsforbook

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// Store is the narrow storage interface this handler depends on.
type Store interface {
	PendingReservationsForBook(ctx context.Context, bookID uuid.UUID) ([]core.Reservation, error)
}

// QueueEntry is one reservation in the result. Position is 1-based: the
// entry at position 1 is fulfilled by the next returned copy.
type QueueEntry struct {
	ReservationID   uuid.UUID
	MemberID        uuid.UUID
	ReservationDate time.Time
	ExpirationDate  time.Time
	Position        int
}

// Result lists the book's pending reservations in fulfillment order.
type Result struct {
	BookID uuid.UUID
	Queue  []QueueEntry
}

// QueryHandler answers the PendingReservationsForBook query.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a QueryHandler with the given storage.
func NewQueryHandler(s Store) *QueryHandler {
	return &QueryHandler{store: s}
}

// Handle executes the query.
func (h *QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	reservations, err := h.store.PendingReservationsForBook(ctx, query.BookID)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		BookID: query.BookID,
		Queue:  make([]QueueEntry, 0, len(reservations)),
	}

	for i, reservation := range reservations {
		result.Queue = append(result.Queue, QueueEntry{
			ReservationID:   reservation.ID,
			MemberID:        reservation.MemberID,
			ReservationDate: reservation.ReservationDate,
			ExpirationDate:  reservation.ExpirationDate,
			Position:        i + 1,
		})
	}

	return result, nil
}
