package payfine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
)

func outstandingFine(amount core.Cents) core.Fine {
	return core.Fine{
		ID:       uuid.New(),
		MemberID: uuid.New(),
		Amount:   amount,
		Reason:   core.ReasonLateReturn,
		Status:   core.FineOutstanding,
	}
}

func Test_Decide_PaysOutstandingFineInFull(t *testing.T) {
	fine := outstandingFine(150)
	command := BuildCommand(fine.ID, 150, time.Now())

	result := Decide(state{fine: fine}, command)

	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.FinePaid)
	require.True(t, ok)
	assert.Equal(t, fine.ID.String(), event.FineID)
}

func Test_Decide_RejectsPartialPayment(t *testing.T) {
	fine := outstandingFine(150)
	command := BuildCommand(fine.ID, 100, time.Now())

	result := Decide(state{fine: fine}, command)

	assert.ErrorIs(t, result.HasError(), core.ErrValidation)
}

func Test_Decide_RejectsOverpayment(t *testing.T) {
	fine := outstandingFine(150)
	command := BuildCommand(fine.ID, 200, time.Now())

	result := Decide(state{fine: fine}, command)

	assert.ErrorIs(t, result.HasError(), core.ErrValidation)
}

func Test_Decide_AlreadyPaidIsIdempotent(t *testing.T) {
	fine := outstandingFine(150)
	fine.Status = core.FinePaidStatus

	command := BuildCommand(fine.ID, 150, time.Now())

	result := Decide(state{fine: fine}, command)

	assert.True(t, result.IsIdempotent())
	assert.NoError(t, result.HasError())
}

func Test_Decide_RejectsWaivedFine(t *testing.T) {
	fine := outstandingFine(150)
	fine.Status = core.FineWaivedStatus

	command := BuildCommand(fine.ID, 150, time.Now())

	result := Decide(state{fine: fine}, command)

	assert.ErrorIs(t, result.HasError(), core.ErrInvalidState)
}
