package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/circulation-go/core"
)

func Test_ReservationStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    core.ReservationStatus
		to      core.ReservationStatus
		allowed bool
	}{
		{from: core.ReservationPending, to: core.ReservationFulfilled, allowed: true},
		{from: core.ReservationPending, to: core.ReservationCancelledStatus, allowed: true},
		{from: core.ReservationPending, to: core.ReservationExpiredStatus, allowed: true},
		{from: core.ReservationFulfilled, to: core.ReservationExpiredStatus, allowed: true},
		{from: core.ReservationFulfilled, to: core.ReservationCancelledStatus, allowed: false},
		{from: core.ReservationFulfilled, to: core.ReservationPending, allowed: false},
		{from: core.ReservationCancelledStatus, to: core.ReservationPending, allowed: false},
		{from: core.ReservationExpiredStatus, to: core.ReservationPending, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func Test_Reservation_Validate(t *testing.T) {
	now := time.Now()

	valid := core.Reservation{
		ID:              uuid.New(),
		BookID:          uuid.New(),
		MemberID:        uuid.New(),
		Status:          core.ReservationPending,
		ReservationDate: now,
		ExpirationDate:  now.AddDate(0, 0, 30),
	}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.ExpirationDate = now
	assert.ErrorIs(t, invalid.Validate(), core.ErrValidation)
}

func Test_Reservation_IsHeldFor(t *testing.T) {
	copyID := uuid.New()
	memberID := uuid.New()

	reservation := core.Reservation{
		ID:       uuid.New(),
		MemberID: memberID,
		Status:   core.ReservationFulfilled,
		CopyID:   &copyID,
	}

	assert.True(t, reservation.IsHeldFor(copyID, memberID))
	assert.False(t, reservation.IsHeldFor(copyID, uuid.New()), "other member cannot claim")
	assert.False(t, reservation.IsHeldFor(uuid.New(), memberID), "other copy is not bound")

	pending := reservation
	pending.Status = core.ReservationPending
	assert.False(t, pending.IsHeldFor(copyID, memberID), "pending reservation holds no copy")
}
