package cancelreservation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
)

func Test_Decide_CancelsPendingReservation(t *testing.T) {
	command := BuildCommand(uuid.New(), time.Now())
	snapshot := state{
		reservation: core.Reservation{ID: command.ReservationID, Status: core.ReservationPending},
	}

	result := Decide(snapshot, command)

	require.NoError(t, result.HasError())

	event, ok := result.Event.(core.ReservationCancelled)
	require.True(t, ok)
	assert.Equal(t, command.ReservationID.String(), event.ReservationID)
}

func Test_Decide_RejectsNonPendingReservation(t *testing.T) {
	statuses := []core.ReservationStatus{
		core.ReservationFulfilled,
		core.ReservationCancelledStatus,
		core.ReservationExpiredStatus,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			command := BuildCommand(uuid.New(), time.Now())
			snapshot := state{
				reservation: core.Reservation{ID: command.ReservationID, Status: status},
			}

			result := Decide(snapshot, command)

			assert.ErrorIs(t, result.HasError(), core.ErrInvalidState)
		})
	}
}
