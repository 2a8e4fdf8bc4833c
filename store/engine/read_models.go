package engine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// OpenLoanRow is one open loan joined with its book metadata.
type OpenLoanRow struct {
	Loan      core.Loan
	BookID    uuid.UUID
	BookTitle string
}

// OpenLoansByMember returns the member's open loans with book metadata,
// ordered by due date.
func (s *Store) OpenLoansByMember(ctx context.Context, memberID uuid.UUID) ([]OpenLoanRow, error) {
	selectStmt := s.builder().
		From(tableLoans).
		Join(
			goqu.T(tableCopies),
			goqu.On(goqu.Ex{tableLoans + ".copy_id": goqu.I(tableCopies + ".copy_id")}),
		).
		Join(
			goqu.T(tableBooks),
			goqu.On(goqu.Ex{tableCopies + ".book_id": goqu.I(tableBooks + ".book_id")}),
		).
		Select(
			goqu.I(tableLoans+".loan_id"),
			goqu.I(tableLoans+".copy_id"),
			goqu.I(tableLoans+".member_id"),
			goqu.I(tableLoans+".checkout_date"),
			goqu.I(tableLoans+".due_date"),
			goqu.I(tableBooks+".book_id"),
			goqu.I(tableBooks+".title"),
		).
		Where(goqu.Ex{
			tableLoans + ".member_id":   memberID.String(),
			tableLoans + ".return_date": nil,
		}).
		Order(goqu.I(tableLoans + ".due_date").Asc())

	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	loans := make([]OpenLoanRow, 0)

	for rows.Next() {
		var (
			loanID, copyID, rowMemberID, bookID, title string
			checkoutDate, dueDate                      time.Time
		)

		scanErr := rows.Scan(&loanID, &copyID, &rowMemberID, &checkoutDate, &dueDate, &bookID, &title)
		if scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			return nil, scanErr
		}

		parsedLoanID, parseErr := parseID(loanID)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedCopyID, parseErr := parseID(copyID)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedMemberID, parseErr := parseID(rowMemberID)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedBookID, parseErr := parseID(bookID)
		if parseErr != nil {
			return nil, parseErr
		}

		loans = append(loans, OpenLoanRow{
			Loan: core.Loan{
				ID:           parsedLoanID,
				CopyID:       parsedCopyID,
				MemberID:     parsedMemberID,
				CheckoutDate: checkoutDate.UTC(),
				DueDate:      dueDate.UTC(),
			},
			BookID:    parsedBookID,
			BookTitle: title,
		})
	}

	return loans, nil
}

// PendingReservationsForBook returns the book's pending reservations in
// fulfillment order (FIFO by reservation date).
func (s *Store) PendingReservationsForBook(ctx context.Context, bookID uuid.UUID) ([]core.Reservation, error) {
	selectStmt := s.reservationSelect().
		Where(goqu.Ex{
			"book_id": bookID.String(),
			"status":  string(core.ReservationPending),
		}).
		Order(goqu.I("reservation_date").Asc())

	return s.queryReservations(ctx, selectStmt)
}

// OutstandingFinesByMember returns the member's outstanding fines, oldest
// first.
func (s *Store) OutstandingFinesByMember(ctx context.Context, memberID uuid.UUID) ([]core.Fine, error) {
	selectStmt := s.fineSelect().
		Where(goqu.Ex{
			"member_id": memberID.String(),
			"status":    string(core.FineOutstanding),
		}).
		Order(goqu.I("issued_at").Asc())

	return s.queryFines(ctx, selectStmt)
}
