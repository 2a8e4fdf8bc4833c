package returncopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/features/command/returncopy"
	"github.com/libreshelf/circulation-go/store/engine"
)

type fakeStore struct {
	loan        core.Loan
	copy        core.BookCopy
	reservation *core.Reservation

	completedUpdate *engine.ReturnUpdate
}

func (f *fakeStore) GetLoan(_ context.Context, _ uuid.UUID) (core.Loan, error) {
	return f.loan, nil
}

func (f *fakeStore) GetCopy(_ context.Context, _ uuid.UUID) (core.BookCopy, error) {
	return f.copy, nil
}

func (f *fakeStore) OldestPendingReservation(_ context.Context, _ uuid.UUID) (core.Reservation, bool, error) {
	if f.reservation == nil {
		return core.Reservation{}, false, nil
	}

	return *f.reservation, true, nil
}

func (f *fakeStore) CompleteReturn(_ context.Context, update engine.ReturnUpdate) error {
	f.completedUpdate = &update

	return nil
}

func newFakeStore() *fakeStore {
	checkedOut := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	loanID := uuid.New()
	copyID := uuid.New()

	return &fakeStore{
		loan: core.Loan{
			ID:           loanID,
			CopyID:       copyID,
			MemberID:     uuid.New(),
			CheckoutDate: checkedOut,
			DueDate:      checkedOut.AddDate(0, 0, 14),
		},
		copy: core.BookCopy{
			ID:      copyID,
			BookID:  uuid.New(),
			Status:  core.CopyCheckedOutStatus,
			Version: 5,
		},
	}
}

func Test_CommandHandler_Handle_ClosesLoan(t *testing.T) {
	fake := newFakeStore()
	handler := returncopy.NewCommandHandler(fake)

	command := returncopy.BuildCommand(fake.loan.ID, fake.loan.DueDate.AddDate(0, 0, -2))

	_, err := handler.Handle(context.Background(), command)

	require.NoError(t, err)
	require.NotNil(t, fake.completedUpdate)
	assert.Equal(t, fake.loan.ID, fake.completedUpdate.LoanID)
	assert.Equal(t, uint(5), fake.completedUpdate.CopyExpectedVersion)
	assert.Equal(t, core.CopyAvailable, fake.completedUpdate.NextCopyStatus)
	assert.Equal(t, uuid.Nil, fake.completedUpdate.FulfillReservationID)
	assert.Nil(t, fake.completedUpdate.Fine)
}

func Test_CommandHandler_Handle_LateReturnWritesFine(t *testing.T) {
	fake := newFakeStore()
	handler := returncopy.NewCommandHandler(fake)

	command := returncopy.BuildCommand(fake.loan.ID, fake.loan.DueDate.AddDate(0, 0, 6))

	_, err := handler.Handle(context.Background(), command)

	require.NoError(t, err)
	require.NotNil(t, fake.completedUpdate)
	require.NotNil(t, fake.completedUpdate.Fine)

	fine := fake.completedUpdate.Fine
	assert.Equal(t, command.FineID, fine.ID)
	assert.Equal(t, fake.loan.MemberID, fine.MemberID)
	require.NotNil(t, fine.LoanID)
	assert.Equal(t, fake.loan.ID, *fine.LoanID)
	assert.Equal(t, core.Cents(150), fine.Amount)
	assert.Equal(t, core.ReasonLateReturn, fine.Reason)
	assert.Equal(t, core.FineOutstanding, fine.Status)
}

func Test_CommandHandler_Handle_FulfillsPendingReservation(t *testing.T) {
	fake := newFakeStore()
	fake.reservation = &core.Reservation{
		ID:       uuid.New(),
		BookID:   fake.copy.BookID,
		MemberID: uuid.New(),
		Status:   core.ReservationPending,
	}

	handler := returncopy.NewCommandHandler(fake)

	command := returncopy.BuildCommand(fake.loan.ID, fake.loan.DueDate.AddDate(0, 0, -1))

	_, err := handler.Handle(context.Background(), command)

	require.NoError(t, err)
	require.NotNil(t, fake.completedUpdate)
	assert.Equal(t, core.CopyReserved, fake.completedUpdate.NextCopyStatus)
	assert.Equal(t, fake.reservation.ID, fake.completedUpdate.FulfillReservationID)
}

func Test_CommandHandler_Handle_RejectsClosedLoan(t *testing.T) {
	fake := newFakeStore()
	returned := fake.loan.CheckoutDate.AddDate(0, 0, 3)
	fake.loan.ReturnDate = &returned
	fake.copy.Status = core.CopyAvailable

	handler := returncopy.NewCommandHandler(fake)

	command := returncopy.BuildCommand(fake.loan.ID, fake.loan.DueDate)

	_, err := handler.Handle(context.Background(), command)

	assert.ErrorIs(t, err, core.ErrLoanAlreadyClosed)
	assert.Nil(t, fake.completedUpdate)
}
