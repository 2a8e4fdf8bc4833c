package returncopy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
)

func defaultPolicy() Policy {
	return Policy{RatePerDay: DefaultRatePerDay, GracePeriodDays: DefaultGracePeriodDays}
}

func openLoan(checkedOut time.Time, loanDays int) (core.Loan, core.BookCopy) {
	loan := core.Loan{
		ID:           uuid.New(),
		CopyID:       uuid.New(),
		MemberID:     uuid.New(),
		CheckoutDate: checkedOut,
		DueDate:      checkedOut.AddDate(0, 0, loanDays),
	}

	copyRecord := core.BookCopy{
		ID:     loan.CopyID,
		BookID: uuid.New(),
		Status: core.CopyCheckedOutStatus,
	}

	return loan, copyRecord
}

func Test_Decide_ReturnsOnTimeWithoutFine(t *testing.T) {
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, copyRecord := openLoan(checkedOut, 14)

	command := BuildCommand(loan.ID, checkedOut.AddDate(0, 0, 10))

	result := Decide(state{loan: loan, copy: copyRecord}, command, defaultPolicy())

	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.CopyReturned)
	require.True(t, ok)
	assert.Equal(t, core.CopyAvailable, event.NextCopyStatus)
	assert.Empty(t, event.FulfilledReservationID)
	assert.Equal(t, 0, event.DaysLate)
	assert.Equal(t, core.Cents(0), event.FineAmount)
}

func Test_Decide_LateReturnAssessesFine(t *testing.T) {
	// checked out at T0 due in 14 days, returned at T0+20 at 25 cents/day
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, copyRecord := openLoan(checkedOut, 14)

	command := BuildCommand(loan.ID, checkedOut.AddDate(0, 0, 20))

	result := Decide(state{loan: loan, copy: copyRecord}, command, defaultPolicy())

	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.CopyReturned)
	require.True(t, ok)
	assert.Equal(t, 6, event.DaysLate)
	assert.Equal(t, core.Cents(150), event.FineAmount)
}

func Test_Decide_ReturnFulfillsOldestPendingReservation(t *testing.T) {
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, copyRecord := openLoan(checkedOut, 14)

	reservation := core.Reservation{
		ID:       uuid.New(),
		BookID:   copyRecord.BookID,
		MemberID: uuid.New(),
		Status:   core.ReservationPending,
	}

	command := BuildCommand(loan.ID, checkedOut.AddDate(0, 0, 7))

	result := Decide(state{loan: loan, copy: copyRecord, nextReservation: &reservation}, command, defaultPolicy())

	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.CopyReturned)
	require.True(t, ok)
	assert.Equal(t, core.CopyReserved, event.NextCopyStatus)
	assert.Equal(t, reservation.ID.String(), event.FulfilledReservationID)
}

func Test_Decide_RejectsClosedLoan(t *testing.T) {
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, copyRecord := openLoan(checkedOut, 14)

	returned := checkedOut.AddDate(0, 0, 5)
	loan.ReturnDate = &returned
	copyRecord.Status = core.CopyAvailable

	command := BuildCommand(loan.ID, checkedOut.AddDate(0, 0, 6))

	result := Decide(state{loan: loan, copy: copyRecord}, command, defaultPolicy())

	assert.ErrorIs(t, result.HasError(), core.ErrLoanAlreadyClosed)
}

func Test_Decide_RejectsCopyNotCheckedOut(t *testing.T) {
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, copyRecord := openLoan(checkedOut, 14)
	copyRecord.Status = core.CopyLost

	command := BuildCommand(loan.ID, checkedOut.AddDate(0, 0, 6))

	result := Decide(state{loan: loan, copy: copyRecord}, command, defaultPolicy())

	assert.ErrorIs(t, result.HasError(), core.ErrInvalidState)
}

func Test_Decide_RejectsReturnBeforeCheckout(t *testing.T) {
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, copyRecord := openLoan(checkedOut, 14)

	command := BuildCommand(loan.ID, checkedOut.AddDate(0, 0, -1))

	result := Decide(state{loan: loan, copy: copyRecord}, command, defaultPolicy())

	assert.ErrorIs(t, result.HasError(), core.ErrValidation)
}

func Test_Decide_GracePeriodSuppressesFine(t *testing.T) {
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, copyRecord := openLoan(checkedOut, 14)

	command := BuildCommand(loan.ID, checkedOut.AddDate(0, 0, 16))

	policy := Policy{RatePerDay: 25, GracePeriodDays: 3}
	result := Decide(state{loan: loan, copy: copyRecord}, command, policy)

	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.CopyReturned)
	require.True(t, ok)
	assert.Equal(t, 2, event.DaysLate)
	assert.Equal(t, core.Cents(0), event.FineAmount)
}
