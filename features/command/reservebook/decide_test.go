package reservebook

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
)

func Test_Decide_CreatesPendingReservation(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 30, time.Now())
	snapshot := state{
		member:     core.Member{ID: command.MemberID, Status: core.MembershipActive},
		bookExists: true,
	}

	result := Decide(snapshot, command)

	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.BookReserved)
	require.True(t, ok)
	assert.Equal(t, command.ReservationID.String(), event.ReservationID)
	assert.Equal(t, command.OccurredAt.AddDate(0, 0, 30), event.ExpirationDate)
}

func Test_Decide_RejectsUnknownBook(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 30, time.Now())
	snapshot := state{
		member:     core.Member{ID: command.MemberID, Status: core.MembershipActive},
		bookExists: false,
	}

	result := Decide(snapshot, command)

	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
}

func Test_Decide_RejectsInactiveMember(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 30, time.Now())
	snapshot := state{
		member:     core.Member{ID: command.MemberID, Status: core.MembershipSuspended},
		bookExists: true,
	}

	result := Decide(snapshot, command)

	assert.ErrorIs(t, result.HasError(), core.ErrMemberIneligible)
}

func Test_Decide_RejectsDuplicatePendingReservation(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 30, time.Now())
	snapshot := state{
		member:                core.Member{ID: command.MemberID, Status: core.MembershipActive},
		bookExists:            true,
		hasPendingReservation: true,
	}

	result := Decide(snapshot, command)

	assert.ErrorIs(t, result.HasError(), core.ErrDuplicateReservation)
	assert.ErrorIs(t, result.HasError(), core.ErrConflict)
}
