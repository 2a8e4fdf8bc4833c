package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// GetFine loads a fine by id.
func (s *Store) GetFine(ctx context.Context, fineID uuid.UUID) (core.Fine, error) {
	selectStmt := s.fineSelect().
		Where(goqu.Ex{"fine_id": fineID.String()})

	fines, err := s.queryFines(ctx, selectStmt)
	if err != nil {
		return core.Fine{}, err
	}

	if len(fines) == 0 {
		return core.Fine{}, notFound("fine", fineID)
	}

	return fines[0], nil
}

// OutstandingFineTotal returns the sum of a member's outstanding fines.
func (s *Store) OutstandingFineTotal(ctx context.Context, memberID uuid.UUID) (core.Cents, error) {
	selectStmt := s.builder().
		From(tableFines).
		Select(goqu.L(amountColumn("COALESCE(SUM(amount), 0)"))).
		Where(goqu.Ex{
			"member_id": memberID.String(),
			"status":    string(core.FineOutstanding),
		})

	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return 0, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return 0, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return 0, nil
	}

	var total string
	if scanErr := rows.Scan(&total); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return 0, scanErr
	}

	return core.ParseCents(total)
}

// PayFine marks an outstanding fine as paid, guarded on it still being
// outstanding.
func (s *Store) PayFine(ctx context.Context, fineID uuid.UUID, paidAt time.Time) error {
	updateStmt := s.builder().
		Update(tableFines).
		Set(goqu.Record{
			"status":       string(core.FinePaidStatus),
			"payment_date": ts(paidAt),
		}).
		Where(goqu.Ex{
			"fine_id": fineID.String(),
			"status":  string(core.FineOutstanding),
		})

	sqlQuery, err := s.buildSQL(updateStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

// WaiveFine marks an outstanding fine as waived, guarded on it still being
// outstanding.
func (s *Store) WaiveFine(ctx context.Context, fineID uuid.UUID) error {
	updateStmt := s.builder().
		Update(tableFines).
		Set(goqu.Record{"status": string(core.FineWaivedStatus)}).
		Where(goqu.Ex{
			"fine_id": fineID.String(),
			"status":  string(core.FineOutstanding),
		})

	sqlQuery, err := s.buildSQL(updateStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

func (s *Store) fineSelect() *goqu.SelectDataset {
	return s.builder().
		From(tableFines).
		Select(
			"fine_id",
			"member_id",
			"loan_id",
			goqu.L(amountColumn("amount")),
			"reason",
			"status",
			"issued_at",
			"payment_date",
		)
}

func (s *Store) queryFines(ctx context.Context, selectStmt *goqu.SelectDataset) ([]core.Fine, error) {
	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	fines := make([]core.Fine, 0)

	for rows.Next() {
		var (
			id, memberID, amount, reason, status string
			loanID                               sql.NullString
			issuedAt                             time.Time
			paymentDate                          sql.NullTime
		)

		scanErr := rows.Scan(&id, &memberID, &loanID, &amount, &reason, &status, &issuedAt, &paymentDate)
		if scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			return nil, scanErr
		}

		fineID, parseErr := parseID(id)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedMemberID, parseErr := parseID(memberID)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedLoanID, parseErr := nullableID(loanID)
		if parseErr != nil {
			return nil, parseErr
		}

		cents, parseErr := core.ParseCents(amount)
		if parseErr != nil {
			return nil, parseErr
		}

		fines = append(fines, core.Fine{
			ID:          fineID,
			MemberID:    parsedMemberID,
			LoanID:      parsedLoanID,
			Amount:      cents,
			Reason:      reason,
			Status:      core.FineStatus(status),
			IssuedAt:    issuedAt.UTC(),
			PaymentDate: nullableTime(paymentDate),
		})
	}

	return fines, nil
}
