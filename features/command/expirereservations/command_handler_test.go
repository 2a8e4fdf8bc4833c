package expirereservations_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/features/command/expirereservations"
	"github.com/libreshelf/circulation-go/store"
)

type fakeStore struct {
	pending  []core.Reservation
	pickups  []core.Reservation
	copies   map[uuid.UUID]core.BookCopy
	conflict map[uuid.UUID]bool // reservations that lose their race

	expiredPending []uuid.UUID
	expiredPickups []uuid.UUID
}

func (f *fakeStore) ListExpiredPending(_ context.Context, now time.Time, _ uint) ([]core.Reservation, error) {
	stale := make([]core.Reservation, 0)
	for _, r := range f.pending {
		if r.ExpirationDate.Before(now) {
			stale = append(stale, r)
		}
	}

	return stale, nil
}

func (f *fakeStore) ListExpiredPickups(_ context.Context, cutoff time.Time, _ uint) ([]core.Reservation, error) {
	stale := make([]core.Reservation, 0)
	for _, r := range f.pickups {
		if r.FulfilledAt != nil && r.FulfilledAt.Before(cutoff) {
			stale = append(stale, r)
		}
	}

	return stale, nil
}

func (f *fakeStore) UpdateReservationStatus(_ context.Context, reservationID uuid.UUID, _, _ core.ReservationStatus) error {
	if f.conflict[reservationID] {
		return store.ErrConcurrencyConflict
	}

	f.expiredPending = append(f.expiredPending, reservationID)

	return nil
}

func (f *fakeStore) GetCopy(_ context.Context, copyID uuid.UUID) (core.BookCopy, error) {
	return f.copies[copyID], nil
}

func (f *fakeStore) ExpirePickup(_ context.Context, reservationID, _ uuid.UUID, _ uint) error {
	if f.conflict[reservationID] {
		return store.ErrConcurrencyConflict
	}

	f.expiredPickups = append(f.expiredPickups, reservationID)

	return nil
}

func pendingReservation(expiresAt time.Time) core.Reservation {
	return core.Reservation{
		ID:              uuid.New(),
		BookID:          uuid.New(),
		MemberID:        uuid.New(),
		Status:          core.ReservationPending,
		ReservationDate: expiresAt.AddDate(0, 0, -30),
		ExpirationDate:  expiresAt,
	}
}

func fulfilledReservation(fulfilledAt time.Time, copyID uuid.UUID) core.Reservation {
	return core.Reservation{
		ID:          uuid.New(),
		BookID:      uuid.New(),
		MemberID:    uuid.New(),
		Status:      core.ReservationFulfilled,
		CopyID:      &copyID,
		FulfilledAt: &fulfilledAt,
	}
}

func Test_Handle_ExpiresOnlyStalePendingReservations(t *testing.T) {
	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)

	stale := pendingReservation(now.AddDate(0, 0, -1))
	fresh := pendingReservation(now.AddDate(0, 0, 5))

	fake := &fakeStore{pending: []core.Reservation{stale, fresh}}

	handler := expirereservations.NewCommandHandler(fake)

	result, err := handler.Handle(context.Background(), expirereservations.BuildCommand(now))

	require.NoError(t, err)
	assert.Equal(t, 1, result.ExpiredPending)
	assert.Equal(t, []uuid.UUID{stale.ID}, fake.expiredPending)
}

func Test_Handle_ReleasesUnclaimedPickups(t *testing.T) {
	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	copyID := uuid.New()

	unclaimed := fulfilledReservation(now.AddDate(0, 0, -5), copyID)

	fake := &fakeStore{
		pickups: []core.Reservation{unclaimed},
		copies: map[uuid.UUID]core.BookCopy{
			copyID: {ID: copyID, Status: core.CopyReserved, Version: 2},
		},
	}

	handler := expirereservations.NewCommandHandler(fake)

	result, err := handler.Handle(context.Background(), expirereservations.BuildCommand(now))

	require.NoError(t, err)
	assert.Equal(t, 1, result.ExpiredPickups)
	assert.Equal(t, []uuid.UUID{unclaimed.ID}, fake.expiredPickups)
}

func Test_Handle_ClaimedCopyIsNotReleased(t *testing.T) {
	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	copyID := uuid.New()

	// the member checked the copy out inside the pickup window; the
	// reservation row still reads Fulfilled
	claimed := fulfilledReservation(now.AddDate(0, 0, -5), copyID)

	fake := &fakeStore{
		pickups: []core.Reservation{claimed},
		copies: map[uuid.UUID]core.BookCopy{
			copyID: {ID: copyID, Status: core.CopyCheckedOutStatus, Version: 3},
		},
	}

	handler := expirereservations.NewCommandHandler(fake)

	result, err := handler.Handle(context.Background(), expirereservations.BuildCommand(now))

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExpiredPickups)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, fake.expiredPickups, "a copy with an open loan must stay CheckedOut")
}

func Test_Handle_RecentPickupIsLeftAlone(t *testing.T) {
	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	copyID := uuid.New()

	recent := fulfilledReservation(now.AddDate(0, 0, -1), copyID)

	fake := &fakeStore{
		pickups: []core.Reservation{recent},
		copies: map[uuid.UUID]core.BookCopy{
			copyID: {ID: copyID, Status: core.CopyReserved, Version: 2},
		},
	}

	handler := expirereservations.NewCommandHandler(fake)

	result, err := handler.Handle(context.Background(), expirereservations.BuildCommand(now))

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExpiredPickups)
}

func Test_Handle_SkipsRecordsThatLoseTheirRace(t *testing.T) {
	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)

	lost := pendingReservation(now.AddDate(0, 0, -2))
	won := pendingReservation(now.AddDate(0, 0, -1))

	fake := &fakeStore{
		pending:  []core.Reservation{lost, won},
		conflict: map[uuid.UUID]bool{lost.ID: true},
	}

	handler := expirereservations.NewCommandHandler(fake)

	result, err := handler.Handle(context.Background(), expirereservations.BuildCommand(now))

	require.NoError(t, err, "a lost race must not abort the sweep")
	assert.Equal(t, 1, result.ExpiredPending)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []uuid.UUID{won.ID}, fake.expiredPending)
}
