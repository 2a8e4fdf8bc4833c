package checkoutcopy_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/features/command/checkoutcopy"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/store"
)

type fakeStore struct {
	copy        core.BookCopy
	member      core.Member
	fines       core.Cents
	reservation *core.Reservation

	checkOutCalls int
	checkOutErrs  []error
	lastLoan      core.Loan

	// applied after the first failed CheckOutCopy, simulating the state the
	// retry re-reads
	copyAfterConflict *core.BookCopy
}

func (f *fakeStore) GetCopy(_ context.Context, _ uuid.UUID) (core.BookCopy, error) {
	if f.checkOutCalls > 0 && f.copyAfterConflict != nil {
		return *f.copyAfterConflict, nil
	}

	return f.copy, nil
}

func (f *fakeStore) GetMember(_ context.Context, _ uuid.UUID) (core.Member, error) {
	return f.member, nil
}

func (f *fakeStore) OutstandingFineTotal(_ context.Context, _ uuid.UUID) (core.Cents, error) {
	return f.fines, nil
}

func (f *fakeStore) FulfilledReservationForCopy(_ context.Context, _ uuid.UUID) (core.Reservation, bool, error) {
	if f.reservation == nil {
		return core.Reservation{}, false, nil
	}

	return *f.reservation, true, nil
}

func (f *fakeStore) CheckOutCopy(_ context.Context, _ uuid.UUID, _ uint, loan core.Loan) error {
	f.lastLoan = loan

	var err error
	if f.checkOutCalls < len(f.checkOutErrs) {
		err = f.checkOutErrs[f.checkOutCalls]
	}

	f.checkOutCalls++

	return err
}

func activeMember() core.Member {
	return core.Member{ID: uuid.New(), Status: core.MembershipActive}
}

func Test_CommandHandler_Handle_CreatesLoan(t *testing.T) {
	copyID := uuid.New()
	fake := &fakeStore{
		copy:   core.BookCopy{ID: copyID, Status: core.CopyAvailable, Version: 3},
		member: activeMember(),
	}

	handler := checkoutcopy.NewCommandHandler(fake)
	command := checkoutcopy.BuildCommand(copyID, fake.member.ID, 14, time.Now())

	result, err := handler.Handle(context.Background(), command)

	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.Equal(t, 1, fake.checkOutCalls)
	assert.Equal(t, command.LoanID, fake.lastLoan.ID)
	assert.Equal(t, command.OccurredAt.AddDate(0, 0, 14), fake.lastLoan.DueDate)
}

func Test_CommandHandler_Handle_RetriesOnceOnConcurrencyConflict(t *testing.T) {
	copyID := uuid.New()
	fake := &fakeStore{
		copy:         core.BookCopy{ID: copyID, Status: core.CopyAvailable, Version: 3},
		member:       activeMember(),
		checkOutErrs: []error{store.ErrConcurrencyConflict, nil},
	}

	handler := checkoutcopy.NewCommandHandler(
		fake,
		checkoutcopy.WithRetryOptions(shell.WithBaseDelay(0)),
	)
	command := checkoutcopy.BuildCommand(copyID, fake.member.ID, 14, time.Now())

	result, err := handler.Handle(context.Background(), command)

	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.Equal(t, 2, fake.checkOutCalls)
}

func Test_CommandHandler_Handle_RetryLosesToFasterCheckout(t *testing.T) {
	copyID := uuid.New()
	fake := &fakeStore{
		copy:              core.BookCopy{ID: copyID, Status: core.CopyAvailable, Version: 3},
		member:            activeMember(),
		checkOutErrs:      []error{store.ErrConcurrencyConflict},
		copyAfterConflict: &core.BookCopy{ID: copyID, Status: core.CopyCheckedOutStatus, Version: 4},
	}

	handler := checkoutcopy.NewCommandHandler(
		fake,
		checkoutcopy.WithRetryOptions(shell.WithBaseDelay(0)),
	)
	command := checkoutcopy.BuildCommand(copyID, fake.member.ID, 14, time.Now())

	result, err := handler.Handle(context.Background(), command)

	assert.ErrorIs(t, err, core.ErrCopyUnavailable)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.Equal(t, 1, fake.checkOutCalls, "the re-read resolves the conflict without another write")
}

func Test_CommandHandler_Handle_BusinessConflictIsNotRetried(t *testing.T) {
	copyID := uuid.New()
	fake := &fakeStore{
		copy:   core.BookCopy{ID: copyID, Status: core.CopyCheckedOutStatus},
		member: activeMember(),
	}

	handler := checkoutcopy.NewCommandHandler(fake)
	command := checkoutcopy.BuildCommand(copyID, fake.member.ID, 14, time.Now())

	result, err := handler.Handle(context.Background(), command)

	assert.ErrorIs(t, err, core.ErrCopyUnavailable)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.Equal(t, 0, fake.checkOutCalls)
}

func Test_CommandHandler_Handle_MemberClaimsReservedCopy(t *testing.T) {
	copyID := uuid.New()
	member := activeMember()

	fake := &fakeStore{
		copy:   core.BookCopy{ID: copyID, Status: core.CopyReserved, Version: 7},
		member: member,
		reservation: &core.Reservation{
			ID:       uuid.New(),
			MemberID: member.ID,
			Status:   core.ReservationFulfilled,
			CopyID:   &copyID,
		},
	}

	handler := checkoutcopy.NewCommandHandler(fake)
	command := checkoutcopy.BuildCommand(copyID, member.ID, 14, time.Now())

	_, err := handler.Handle(context.Background(), command)

	require.NoError(t, err)
	assert.Equal(t, 1, fake.checkOutCalls)
}
