// Package outstandingfines answers what a member currently owes: the
// individual outstanding fines and their total.
package outstandingfines

import (
	"github.com/google/uuid"
)

// Query asks for the outstanding fines of one member.
type Query struct {
	MemberID uuid.UUID
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(memberID uuid.UUID) Query {
	return Query{MemberID: memberID}
}
