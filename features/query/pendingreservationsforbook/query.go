// Package pendingreservationsforbook answers the fulfillment queue of a
// book: its pending reservations in strict FIFO order by reservation date.
package pendingreservationsforbook

import (
	"github.com/google/uuid"
)

// Query asks for the pending reservation queue of one book.
type Query struct {
	BookID uuid.UUID
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(bookID uuid.UUID) Query {
	return Query{BookID: bookID}
}
