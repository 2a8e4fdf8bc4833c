package openloansbymember

import (
	"context"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/store/engine"
)

// Store is the narrow storage interface this handler depends on.
type Store interface {
	OpenLoansByMember(ctx context.Context, memberID uuid.UUID) ([]engine.OpenLoanRow, error)
}

// QueryHandler answers the OpenLoansByMember query.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a QueryHandler with the given storage.
func NewQueryHandler(s Store) *QueryHandler {
	return &QueryHandler{store: s}
}

// Handle executes the query.
func (h *QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	rows, err := h.store.OpenLoansByMember(ctx, query.MemberID)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		MemberID: query.MemberID,
		Loans:    make([]OpenLoan, 0, len(rows)),
	}

	for _, row := range rows {
		result.Loans = append(result.Loans, OpenLoan{
			LoanID:       row.Loan.ID,
			CopyID:       row.Loan.CopyID,
			BookID:       row.BookID,
			BookTitle:    row.BookTitle,
			CheckoutDate: row.Loan.CheckoutDate,
			DueDate:      row.Loan.DueDate,
			Overdue:      row.Loan.DueDate.Before(query.AsOf),
		})
	}

	return result, nil
}
