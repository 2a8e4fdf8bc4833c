package checkoutcopy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
)

func Test_Decide_ChecksOutAvailableCopy(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 14, time.Now())
	snapshot := state{
		copy:   core.BookCopy{ID: command.CopyID, Status: core.CopyAvailable},
		member: core.Member{ID: command.MemberID, Status: core.MembershipActive},
	}

	result := Decide(snapshot, command, Policy{FineThreshold: DefaultFineThreshold})

	require.NoError(t, result.HasError())
	require.False(t, result.IsIdempotent())

	event, ok := result.Event.(core.CopyCheckedOut)
	require.True(t, ok)
	assert.Equal(t, command.LoanID.String(), event.LoanID)
	assert.Equal(t, command.OccurredAt.AddDate(0, 0, 14), event.DueDate)
}

func Test_Decide_RejectsInactiveMember(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 14, time.Now())

	for _, status := range []core.MembershipStatus{core.MembershipExpired, core.MembershipSuspended} {
		t.Run(string(status), func(t *testing.T) {
			snapshot := state{
				copy:   core.BookCopy{ID: command.CopyID, Status: core.CopyAvailable},
				member: core.Member{ID: command.MemberID, Status: status},
			}

			result := Decide(snapshot, command, Policy{FineThreshold: DefaultFineThreshold})

			assert.ErrorIs(t, result.HasError(), core.ErrMemberIneligible)
		})
	}
}

func Test_Decide_RejectsMemberOverFineThreshold(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 14, time.Now())
	snapshot := state{
		copy:             core.BookCopy{ID: command.CopyID, Status: core.CopyAvailable},
		member:           core.Member{ID: command.MemberID, Status: core.MembershipActive},
		outstandingFines: 501,
	}

	result := Decide(snapshot, command, Policy{FineThreshold: 500})

	assert.ErrorIs(t, result.HasError(), core.ErrMemberIneligible)
}

func Test_Decide_AllowsFinesAtExactThreshold(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 14, time.Now())
	snapshot := state{
		copy:             core.BookCopy{ID: command.CopyID, Status: core.CopyAvailable},
		member:           core.Member{ID: command.MemberID, Status: core.MembershipActive},
		outstandingFines: 500,
	}

	result := Decide(snapshot, command, Policy{FineThreshold: 500})

	assert.NoError(t, result.HasError())
}

func Test_Decide_RejectsUnavailableCopy(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 14, time.Now())

	for _, status := range []core.CopyStatus{core.CopyCheckedOutStatus, core.CopyLost, core.CopyDamaged} {
		t.Run(string(status), func(t *testing.T) {
			snapshot := state{
				copy:   core.BookCopy{ID: command.CopyID, Status: status},
				member: core.Member{ID: command.MemberID, Status: core.MembershipActive},
			}

			result := Decide(snapshot, command, Policy{FineThreshold: DefaultFineThreshold})

			assert.ErrorIs(t, result.HasError(), core.ErrCopyUnavailable)
		})
	}
}

func Test_Decide_AllowsClaimingOwnFulfilledReservation(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 14, time.Now())
	copyID := command.CopyID

	snapshot := state{
		copy:   core.BookCopy{ID: copyID, Status: core.CopyReserved},
		member: core.Member{ID: command.MemberID, Status: core.MembershipActive},
		heldReservation: &core.Reservation{
			ID:       uuid.New(),
			MemberID: command.MemberID,
			Status:   core.ReservationFulfilled,
			CopyID:   &copyID,
		},
	}

	result := Decide(snapshot, command, Policy{FineThreshold: DefaultFineThreshold})

	assert.NoError(t, result.HasError())
}

func Test_Decide_RejectsClaimingAnotherMembersReservation(t *testing.T) {
	command := BuildCommand(uuid.New(), uuid.New(), 14, time.Now())
	copyID := command.CopyID

	snapshot := state{
		copy:   core.BookCopy{ID: copyID, Status: core.CopyReserved},
		member: core.Member{ID: command.MemberID, Status: core.MembershipActive},
		heldReservation: &core.Reservation{
			ID:       uuid.New(),
			MemberID: uuid.New(),
			Status:   core.ReservationFulfilled,
			CopyID:   &copyID,
		},
	}

	result := Decide(snapshot, command, Policy{FineThreshold: DefaultFineThreshold})

	assert.ErrorIs(t, result.HasError(), core.ErrCopyUnavailable)
}
