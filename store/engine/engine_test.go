package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
	"github.com/libreshelf/circulation-go/store"
	"github.com/libreshelf/circulation-go/store/engine/internal/adapters"
)

// fakeResult reports a configurable affected-row count.
type fakeResult struct {
	rows int64
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rows, nil
}

// fakeRows serves pre-canned single-column string rows.
type fakeRows struct {
	values []string
	index  int
}

func (r *fakeRows) Next() bool {
	return r.index < len(r.values)
}

func (r *fakeRows) Scan(dest ...any) error {
	if target, ok := dest[0].(*string); ok {
		*target = r.values[r.index]
	}

	r.index++

	return nil
}

func (r *fakeRows) Close() error {
	return nil
}

// fakeAdapter records executed statements. Each Exec pops the next affected
// row count from affected (defaulting to 1 when exhausted).
type fakeAdapter struct {
	executed   []string
	affected   []int64
	queryRows  *fakeRows
	committed  bool
	rolledBack bool
}

func (f *fakeAdapter) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.executed = append(f.executed, query)

	if f.queryRows == nil {
		return &fakeRows{}, nil
	}

	return f.queryRows, nil
}

func (f *fakeAdapter) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.executed = append(f.executed, query)

	rows := int64(1)
	if len(f.affected) > 0 {
		rows = f.affected[0]
		f.affected = f.affected[1:]
	}

	return fakeResult{rows: rows}, nil
}

func (f *fakeAdapter) Begin(_ context.Context) (adapters.DBTx, error) {
	return &fakeTx{adapter: f}, nil
}

type fakeTx struct {
	adapter *fakeAdapter
}

func (t *fakeTx) Exec(ctx context.Context, query string) (adapters.DBResult, error) {
	return t.adapter.Exec(ctx, query)
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.adapter.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.adapter.rolledBack = true
	return nil
}

func newTestStore(t *testing.T, adapter *fakeAdapter) *Store {
	t.Helper()

	s, err := newStore(adapter)
	require.NoError(t, err)

	return s
}

func Test_UpdateCopyStatus_GuardsOnVersion(t *testing.T) {
	adapter := &fakeAdapter{}
	s := newTestStore(t, adapter)

	copyID := uuid.New()

	err := s.UpdateCopyStatus(context.Background(), copyID, 7, core.CopyCheckedOutStatus)

	require.NoError(t, err)
	require.Len(t, adapter.executed, 1)

	sqlQuery := adapter.executed[0]
	assert.Contains(t, sqlQuery, `"version" = 7`, "the expected version is the write guard")
	assert.Contains(t, sqlQuery, "version + 1", "a successful write bumps the version")
	assert.Contains(t, sqlQuery, copyID.String())
	assert.Contains(t, sqlQuery, "CheckedOut")
}

func Test_UpdateCopyStatus_ZeroRowsIsConcurrencyConflict(t *testing.T) {
	adapter := &fakeAdapter{affected: []int64{0}}
	s := newTestStore(t, adapter)

	err := s.UpdateCopyStatus(context.Background(), uuid.New(), 7, core.CopyCheckedOutStatus)

	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
}

func Test_CheckOutCopy_CommitsCopyAndLoanTogether(t *testing.T) {
	adapter := &fakeAdapter{}
	s := newTestStore(t, adapter)

	now := time.Now()
	loan := core.Loan{
		ID:           uuid.New(),
		CopyID:       uuid.New(),
		MemberID:     uuid.New(),
		CheckoutDate: now,
		DueDate:      now.AddDate(0, 0, 14),
	}

	err := s.CheckOutCopy(context.Background(), loan.CopyID, 3, loan)

	require.NoError(t, err)
	assert.Len(t, adapter.executed, 2)
	assert.True(t, adapter.committed)
	assert.False(t, adapter.rolledBack)
	assert.Contains(t, adapter.executed[1], "ON CONFLICT DO NOTHING", "the open-loan index backs the insert")
}

func Test_CheckOutCopy_LostCopyRaceRollsBack(t *testing.T) {
	adapter := &fakeAdapter{affected: []int64{0}}
	s := newTestStore(t, adapter)

	now := time.Now()
	loan := core.Loan{
		ID:           uuid.New(),
		CopyID:       uuid.New(),
		MemberID:     uuid.New(),
		CheckoutDate: now,
		DueDate:      now.AddDate(0, 0, 14),
	}

	err := s.CheckOutCopy(context.Background(), loan.CopyID, 3, loan)

	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.Len(t, adapter.executed, 1, "the loan insert never runs after a lost copy race")
	assert.True(t, adapter.rolledBack)
	assert.False(t, adapter.committed)
}

func Test_CompleteReturn_GuardsLoanStillOpen(t *testing.T) {
	adapter := &fakeAdapter{}
	s := newTestStore(t, adapter)

	update := ReturnUpdate{
		LoanID:              uuid.New(),
		ReturnedAt:          time.Now(),
		CopyID:              uuid.New(),
		CopyExpectedVersion: 4,
		NextCopyStatus:      core.CopyAvailable,
	}

	err := s.CompleteReturn(context.Background(), update)

	require.NoError(t, err)
	require.Len(t, adapter.executed, 2)
	assert.Contains(t, adapter.executed[0], `"return_date" IS NULL`, "closing is guarded on the loan being open")
	assert.True(t, adapter.committed)
}

func Test_ExpirePickup_ReleaseRequiresReservedCopy(t *testing.T) {
	adapter := &fakeAdapter{}
	s := newTestStore(t, adapter)

	copyID := uuid.New()

	err := s.ExpirePickup(context.Background(), uuid.New(), copyID, 2)

	require.NoError(t, err)
	require.Len(t, adapter.executed, 2)

	copySQL := adapter.executed[1]
	assert.Contains(t, copySQL, `"status" = 'Reserved'`, "a claimed copy must not be released")
	assert.Contains(t, copySQL, `"version" = 2`)
	assert.True(t, adapter.committed)
}

func Test_ExpirePickup_ClaimRaceRollsBack(t *testing.T) {
	adapter := &fakeAdapter{affected: []int64{1, 0}}
	s := newTestStore(t, adapter)

	err := s.ExpirePickup(context.Background(), uuid.New(), uuid.New(), 2)

	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.True(t, adapter.rolledBack)
	assert.False(t, adapter.committed)
}

func Test_InsertReservation_DuplicateSurfacesAsConflict(t *testing.T) {
	adapter := &fakeAdapter{affected: []int64{0}}
	s := newTestStore(t, adapter)

	now := time.Now()
	reservation := core.Reservation{
		ID:              uuid.New(),
		BookID:          uuid.New(),
		MemberID:        uuid.New(),
		Status:          core.ReservationPending,
		ReservationDate: now,
		ExpirationDate:  now.AddDate(0, 0, 30),
	}

	err := s.InsertReservation(context.Background(), reservation)

	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
}

func Test_OutstandingFineTotal_ParsesNumericText(t *testing.T) {
	adapter := &fakeAdapter{queryRows: &fakeRows{values: []string{"2.75"}}}
	s := newTestStore(t, adapter)

	total, err := s.OutstandingFineTotal(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, core.Cents(275), total)
}

func Test_WithDialect_RejectsUnknownDialect(t *testing.T) {
	_, err := newStore(&fakeAdapter{}, WithDialect("oracle"))

	assert.ErrorIs(t, err, store.ErrUnknownDialect)
}
