package openloansbymember

import (
	"time"

	"github.com/google/uuid"
)

// OpenLoan is one open loan in the result, enriched with book metadata.
type OpenLoan struct {
	LoanID       uuid.UUID
	CopyID       uuid.UUID
	BookID       uuid.UUID
	BookTitle    string
	CheckoutDate time.Time
	DueDate      time.Time
	Overdue      bool
}

// Result lists the member's open loans ordered by due date.
type Result struct {
	MemberID uuid.UUID
	Loans    []OpenLoan
}
