package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyCheckedOutEventType is the event type identifier.
const CopyCheckedOutEventType = "CopyCheckedOut"

// CopyCheckedOut represents a copy transitioning Available -> CheckedOut
// (or Reserved -> CheckedOut when a fulfilled reservation is claimed) with a
// new open loan.
type CopyCheckedOut struct {
	EventType  string
	LoanID     string
	CopyID     string
	MemberID   string
	DueDate    time.Time
	OccurredAt OccurredAtTS
}

// BuildCopyCheckedOut creates a new CopyCheckedOut event.
func BuildCopyCheckedOut(loanID, copyID, memberID uuid.UUID, dueDate, occurredAt time.Time) CopyCheckedOut {
	return CopyCheckedOut{
		EventType:  CopyCheckedOutEventType,
		LoanID:     loanID.String(),
		CopyID:     copyID.String(),
		MemberID:   memberID.String(),
		DueDate:    ToOccurredAt(dueDate),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyCheckedOut) IsEventType() string {
	return CopyCheckedOutEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyCheckedOut) HasOccurredAt() time.Time {
	return e.OccurredAt
}
