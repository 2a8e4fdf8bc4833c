package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// GetLoan loads a loan by id.
func (s *Store) GetLoan(ctx context.Context, loanID uuid.UUID) (core.Loan, error) {
	selectStmt := s.builder().
		From(tableLoans).
		Select("loan_id", "copy_id", "member_id", "checkout_date", "due_date", "return_date").
		Where(goqu.Ex{"loan_id": loanID.String()})

	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return core.Loan{}, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return core.Loan{}, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return core.Loan{}, notFound("loan", loanID)
	}

	return s.scanLoan(rows)
}

func (s *Store) scanLoan(rows interface{ Scan(dest ...any) error }) (core.Loan, error) {
	var (
		id, copyID, memberID  string
		checkoutDate, dueDate time.Time
		returnDate            sql.NullTime
	)

	if scanErr := rows.Scan(&id, &copyID, &memberID, &checkoutDate, &dueDate, &returnDate); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return core.Loan{}, scanErr
	}

	loanID, err := parseID(id)
	if err != nil {
		return core.Loan{}, err
	}

	parsedCopyID, err := parseID(copyID)
	if err != nil {
		return core.Loan{}, err
	}

	parsedMemberID, err := parseID(memberID)
	if err != nil {
		return core.Loan{}, err
	}

	return core.Loan{
		ID:           loanID,
		CopyID:       parsedCopyID,
		MemberID:     parsedMemberID,
		CheckoutDate: checkoutDate.UTC(),
		DueDate:      dueDate.UTC(),
		ReturnDate:   nullableTime(returnDate),
	}, nil
}

// CheckOutCopy transitions a copy to CheckedOut and creates the open loan in
// one transaction. The copy update is guarded by the expected version; the
// loan insert is additionally backed by the partial unique index on open
// loans per copy, so two racing checkouts can never both commit.
func (s *Store) CheckOutCopy(
	ctx context.Context,
	copyID uuid.UUID,
	expectedVersion uint,
	loan core.Loan,
) error {

	copySQL, err := s.buildSQL(s.copyStatusUpdate(copyID, expectedVersion, core.CopyCheckedOutStatus))
	if err != nil {
		return err
	}

	loanStmt := s.builder().
		Insert(tableLoans).
		Rows(goqu.Record{
			"loan_id":       loan.ID.String(),
			"copy_id":       loan.CopyID.String(),
			"member_id":     loan.MemberID.String(),
			"checkout_date": ts(loan.CheckoutDate),
			"due_date":      ts(loan.DueDate),
			"return_date":   nil,
		}).
		OnConflict(goqu.DoNothing())

	loanSQL, err := s.buildSQL(loanStmt)
	if err != nil {
		return err
	}

	return s.inTransaction(ctx, func(tx executor) error {
		if txErr := s.execExpectingOne(ctx, tx, copySQL); txErr != nil {
			return txErr
		}

		return s.execExpectingOne(ctx, tx, loanSQL)
	})
}

// ReturnUpdate describes the row changes of one returnCopy operation. All of
// them commit atomically or not at all.
type ReturnUpdate struct {
	LoanID               uuid.UUID
	ReturnedAt           time.Time
	CopyID               uuid.UUID
	CopyExpectedVersion  uint
	NextCopyStatus       core.CopyStatus
	FulfillReservationID uuid.UUID // uuid.Nil when no pending reservation is fulfilled
	Fine                 *core.Fine
}

// CompleteReturn closes the loan, moves the copy to its next status, binds
// the fulfilled reservation (if any) and assesses the late fee (if any) in a
// single transaction. Closing is guarded on the loan still being open, the
// copy update on its version and the reservation update on it still being
// Pending. The fine insert is idempotent: the partial unique index on
// (loan_id) for late-return fines makes a duplicate assessment a no-op.
func (s *Store) CompleteReturn(ctx context.Context, update ReturnUpdate) error {
	loanStmt := s.builder().
		Update(tableLoans).
		Set(goqu.Record{"return_date": ts(update.ReturnedAt)}).
		Where(goqu.Ex{
			"loan_id":     update.LoanID.String(),
			"return_date": nil,
		})

	loanSQL, err := s.buildSQL(loanStmt)
	if err != nil {
		return err
	}

	copySQL, err := s.buildSQL(s.copyStatusUpdate(update.CopyID, update.CopyExpectedVersion, update.NextCopyStatus))
	if err != nil {
		return err
	}

	reservationSQL := ""
	if update.FulfillReservationID != uuid.Nil {
		reservationStmt := s.builder().
			Update(tableReservations).
			Set(goqu.Record{
				"status":       string(core.ReservationFulfilled),
				"copy_id":      update.CopyID.String(),
				"fulfilled_at": ts(update.ReturnedAt),
			}).
			Where(goqu.Ex{
				"reservation_id": update.FulfillReservationID.String(),
				"status":         string(core.ReservationPending),
			})

		reservationSQL, err = s.buildSQL(reservationStmt)
		if err != nil {
			return err
		}
	}

	fineSQL := ""
	if update.Fine != nil {
		fineStmt := s.builder().
			Insert(tableFines).
			Rows(goqu.Record{
				"fine_id":      update.Fine.ID.String(),
				"member_id":    update.Fine.MemberID.String(),
				"loan_id":      idString(update.Fine.LoanID),
				"amount":       update.Fine.Amount.String(),
				"reason":       update.Fine.Reason,
				"status":       string(update.Fine.Status),
				"issued_at":    ts(update.Fine.IssuedAt),
				"payment_date": nil,
			}).
			OnConflict(goqu.DoNothing())

		fineSQL, err = s.buildSQL(fineStmt)
		if err != nil {
			return err
		}
	}

	return s.inTransaction(ctx, func(tx executor) error {
		if txErr := s.execExpectingOne(ctx, tx, loanSQL); txErr != nil {
			return txErr
		}

		if txErr := s.execExpectingOne(ctx, tx, copySQL); txErr != nil {
			return txErr
		}

		if reservationSQL != "" {
			if txErr := s.execExpectingOne(ctx, tx, reservationSQL); txErr != nil {
				return txErr
			}
		}

		if fineSQL != "" {
			// zero rows affected means the fee was already assessed
			if _, txErr := s.exec(ctx, tx, fineSQL); txErr != nil {
				return txErr
			}
		}

		return nil
	})
}

// InsertReservation persists a new pending reservation. The partial unique
// index on (book_id, member_id) for pending reservations backs the duplicate
// guard; a conflicting insert affects zero rows and surfaces as a
// concurrency conflict for the handler to re-check.
func (s *Store) InsertReservation(ctx context.Context, reservation core.Reservation) error {
	insertStmt := s.builder().
		Insert(tableReservations).
		Rows(goqu.Record{
			"reservation_id":   reservation.ID.String(),
			"book_id":          reservation.BookID.String(),
			"member_id":        reservation.MemberID.String(),
			"status":           string(reservation.Status),
			"reservation_date": ts(reservation.ReservationDate),
			"expiration_date":  ts(reservation.ExpirationDate),
			"copy_id":          idString(reservation.CopyID),
			"fulfilled_at":     tsPtr(reservation.FulfilledAt),
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, err := s.buildSQL(insertStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

// GetReservation loads a reservation by id.
func (s *Store) GetReservation(ctx context.Context, reservationID uuid.UUID) (core.Reservation, error) {
	selectStmt := s.reservationSelect().
		Where(goqu.Ex{"reservation_id": reservationID.String()})

	reservations, err := s.queryReservations(ctx, selectStmt)
	if err != nil {
		return core.Reservation{}, err
	}

	if len(reservations) == 0 {
		return core.Reservation{}, notFound("reservation", reservationID)
	}

	return reservations[0], nil
}

// HasPendingReservation reports whether the member already holds a pending
// reservation for the book.
func (s *Store) HasPendingReservation(ctx context.Context, bookID, memberID uuid.UUID) (bool, error) {
	selectStmt := s.reservationSelect().
		Where(goqu.Ex{
			"book_id":   bookID.String(),
			"member_id": memberID.String(),
			"status":    string(core.ReservationPending),
		}).
		Limit(1)

	reservations, err := s.queryReservations(ctx, selectStmt)
	if err != nil {
		return false, err
	}

	return len(reservations) > 0, nil
}

// OldestPendingReservation returns the pending reservation with the earliest
// reservation date for the book, which is the next one to fulfill (FIFO).
func (s *Store) OldestPendingReservation(ctx context.Context, bookID uuid.UUID) (core.Reservation, bool, error) {
	selectStmt := s.reservationSelect().
		Where(goqu.Ex{
			"book_id": bookID.String(),
			"status":  string(core.ReservationPending),
		}).
		Order(goqu.I("reservation_date").Asc()).
		Limit(1)

	reservations, err := s.queryReservations(ctx, selectStmt)
	if err != nil {
		return core.Reservation{}, false, err
	}

	if len(reservations) == 0 {
		return core.Reservation{}, false, nil
	}

	return reservations[0], true, nil
}

// FulfilledReservationForCopy returns the fulfilled reservation bound to the
// copy, if any. Used to let the reserving member claim a Reserved copy.
func (s *Store) FulfilledReservationForCopy(ctx context.Context, copyID uuid.UUID) (core.Reservation, bool, error) {
	selectStmt := s.reservationSelect().
		Where(goqu.Ex{
			"copy_id": copyID.String(),
			"status":  string(core.ReservationFulfilled),
		}).
		Limit(1)

	reservations, err := s.queryReservations(ctx, selectStmt)
	if err != nil {
		return core.Reservation{}, false, err
	}

	if len(reservations) == 0 {
		return core.Reservation{}, false, nil
	}

	return reservations[0], true, nil
}

// UpdateReservationStatus transitions a reservation from an expected status
// to a new one as a compare-and-swap.
func (s *Store) UpdateReservationStatus(
	ctx context.Context,
	reservationID uuid.UUID,
	from core.ReservationStatus,
	to core.ReservationStatus,
) error {

	updateStmt := s.builder().
		Update(tableReservations).
		Set(goqu.Record{"status": string(to)}).
		Where(goqu.Ex{
			"reservation_id": reservationID.String(),
			"status":         string(from),
		})

	sqlQuery, err := s.buildSQL(updateStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

// ListExpiredPending returns pending reservations whose expiration date lies
// before now, oldest first, limited for per-record sweep processing.
func (s *Store) ListExpiredPending(ctx context.Context, now time.Time, limit uint) ([]core.Reservation, error) {
	selectStmt := s.reservationSelect().
		Where(goqu.Ex{"status": string(core.ReservationPending)}).
		Where(goqu.C("expiration_date").Lt(ts(now))).
		Order(goqu.I("expiration_date").Asc()).
		Limit(limit)

	return s.queryReservations(ctx, selectStmt)
}

// ListExpiredPickups returns fulfilled reservations whose copy went
// unclaimed since before the cutoff, oldest first.
func (s *Store) ListExpiredPickups(ctx context.Context, cutoff time.Time, limit uint) ([]core.Reservation, error) {
	selectStmt := s.reservationSelect().
		Where(goqu.Ex{"status": string(core.ReservationFulfilled)}).
		Where(goqu.C("fulfilled_at").Lt(ts(cutoff))).
		Order(goqu.I("fulfilled_at").Asc()).
		Limit(limit)

	return s.queryReservations(ctx, selectStmt)
}

// ExpirePickup expires a fulfilled reservation and releases its bound copy
// back to Available in one transaction. Both writes are guarded; the copy
// release additionally requires the copy to still be Reserved, so losing
// either race (the member claimed the copy concurrently) rolls back.
func (s *Store) ExpirePickup(
	ctx context.Context,
	reservationID uuid.UUID,
	copyID uuid.UUID,
	copyExpectedVersion uint,
) error {

	reservationStmt := s.builder().
		Update(tableReservations).
		Set(goqu.Record{"status": string(core.ReservationExpiredStatus)}).
		Where(goqu.Ex{
			"reservation_id": reservationID.String(),
			"status":         string(core.ReservationFulfilled),
		})

	reservationSQL, err := s.buildSQL(reservationStmt)
	if err != nil {
		return err
	}

	copyStmt := s.builder().
		Update(tableCopies).
		Set(goqu.Record{
			"status":  string(core.CopyAvailable),
			"version": goqu.L("version + 1"),
		}).
		Where(goqu.Ex{
			"copy_id": copyID.String(),
			"version": copyExpectedVersion,
			"status":  string(core.CopyReserved),
		})

	copySQL, err := s.buildSQL(copyStmt)
	if err != nil {
		return err
	}

	return s.inTransaction(ctx, func(tx executor) error {
		if txErr := s.execExpectingOne(ctx, tx, reservationSQL); txErr != nil {
			return txErr
		}

		return s.execExpectingOne(ctx, tx, copySQL)
	})
}

func (s *Store) reservationSelect() *goqu.SelectDataset {
	return s.builder().
		From(tableReservations).
		Select("reservation_id", "book_id", "member_id", "status", "reservation_date", "expiration_date", "copy_id", "fulfilled_at")
}

func (s *Store) queryReservations(ctx context.Context, selectStmt *goqu.SelectDataset) ([]core.Reservation, error) {
	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer s.closeRows(rows)

	reservations := make([]core.Reservation, 0)

	for rows.Next() {
		var (
			id, bookID, memberID, status    string
			reservationDate, expirationDate time.Time
			copyID                          sql.NullString
			fulfilledAt                     sql.NullTime
		)

		scanErr := rows.Scan(&id, &bookID, &memberID, &status, &reservationDate, &expirationDate, &copyID, &fulfilledAt)
		if scanErr != nil {
			s.logError(logMsgScanRowFailed, scanErr)
			return nil, scanErr
		}

		reservationID, parseErr := parseID(id)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedBookID, parseErr := parseID(bookID)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedMemberID, parseErr := parseID(memberID)
		if parseErr != nil {
			return nil, parseErr
		}

		parsedCopyID, parseErr := nullableID(copyID)
		if parseErr != nil {
			return nil, parseErr
		}

		reservations = append(reservations, core.Reservation{
			ID:              reservationID,
			BookID:          parsedBookID,
			MemberID:        parsedMemberID,
			Status:          core.ReservationStatus(status),
			ReservationDate: reservationDate.UTC(),
			ExpirationDate:  expirationDate.UTC(),
			CopyID:          parsedCopyID,
			FulfilledAt:     nullableTime(fulfilledAt),
		})
	}

	return reservations, nil
}
