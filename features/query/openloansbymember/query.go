// Package openloansbymember answers which copies a member currently has
// checked out, with book metadata and an overdue flag.
package openloansbymember

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// Query asks for the open loans of one member as of a given instant.
type Query struct {
	MemberID uuid.UUID
	AsOf     time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(memberID uuid.UUID, asOf time.Time) Query {
	return Query{
		MemberID: memberID,
		AsOf:     core.ToOccurredAt(asOf),
	}
}
