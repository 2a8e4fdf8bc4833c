package outstandingfines

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// Store is the narrow storage interface this handler depends on.
type Store interface {
	OutstandingFinesByMember(ctx context.Context, memberID uuid.UUID) ([]core.Fine, error)
}

// Result lists the member's outstanding fines, oldest first, with the total
// amount owed.
type Result struct {
	MemberID uuid.UUID
	Fines    []core.Fine
	Total    core.Cents
}

// QueryHandler answers the OutstandingFines query.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a QueryHandler with the given storage.
func NewQueryHandler(s Store) *QueryHandler {
	return &QueryHandler{store: s}
}

// Handle executes the query.
func (h *QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	fines, err := h.store.OutstandingFinesByMember(ctx, query.MemberID)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		MemberID: query.MemberID,
		Fines:    fines,
	}

	for _, fine := range fines {
		result.Total += fine.Amount
	}

	return result, nil
}
