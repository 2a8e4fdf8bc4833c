package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/circulation-go/core"
)

func Test_ValidateEmail(t *testing.T) {
	assert.NoError(t, core.ValidateEmail("reader@example.org"))
	assert.ErrorIs(t, core.ValidateEmail("reader@invalid"), core.ErrValidation)
	assert.ErrorIs(t, core.ValidateEmail("reader.example.org"), core.ErrValidation)
	assert.ErrorIs(t, core.ValidateEmail(""), core.ErrValidation)
}

func Test_ValidateISBN(t *testing.T) {
	assert.NoError(t, core.ValidateISBN("9780134190440"))
	assert.NoError(t, core.ValidateISBN("0134190440"))
	assert.ErrorIs(t, core.ValidateISBN("12345"), core.ErrValidation)
	assert.ErrorIs(t, core.ValidateISBN("   "), core.ErrValidation)
}

func Test_ValidateBookTitle(t *testing.T) {
	assert.NoError(t, core.ValidateBookTitle("The Go Programming Language"))
	assert.ErrorIs(t, core.ValidateBookTitle("  "), core.ErrValidation)
}

func Test_ValidateAuthorYears(t *testing.T) {
	death := 1950

	assert.NoError(t, core.ValidateAuthorYears(1900, nil))
	assert.NoError(t, core.ValidateAuthorYears(1900, &death))

	badDeath := 1900
	assert.ErrorIs(t, core.ValidateAuthorYears(1900, &badDeath), core.ErrValidation)
}

func Test_MembershipStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, core.MembershipActive.CanTransitionTo(core.MembershipExpired))
	assert.True(t, core.MembershipExpired.CanTransitionTo(core.MembershipActive), "expired members can be reactivated")
	assert.True(t, core.MembershipActive.CanTransitionTo(core.MembershipSuspended))
	assert.False(t, core.MembershipActive.CanTransitionTo(core.MembershipActive))
	assert.False(t, core.MembershipStatus("Deleted").CanTransitionTo(core.MembershipActive))
}

func Test_Member_CanBorrow(t *testing.T) {
	member := core.Member{ID: uuid.New(), Status: core.MembershipActive}
	assert.True(t, member.CanBorrow())

	member.Status = core.MembershipSuspended
	assert.False(t, member.CanBorrow())

	member.Status = core.MembershipExpired
	assert.False(t, member.CanBorrow())
}

func Test_Loan_Validate(t *testing.T) {
	now := time.Now()

	loan := core.Loan{
		ID:           uuid.New(),
		CopyID:       uuid.New(),
		MemberID:     uuid.New(),
		CheckoutDate: now,
		DueDate:      now.AddDate(0, 0, 14),
	}
	assert.NoError(t, loan.Validate())
	assert.True(t, loan.IsOpen())

	early := now.AddDate(0, 0, -1)
	loan.ReturnDate = &early
	assert.ErrorIs(t, loan.Validate(), core.ErrValidation)
	assert.False(t, loan.IsOpen())

	loan.ReturnDate = nil
	loan.DueDate = now
	assert.ErrorIs(t, loan.Validate(), core.ErrValidation)
}
