package core

import (
	"time"

	"github.com/google/uuid"
)

// MembershipStatusChangedEventType is the event type identifier.
const MembershipStatusChangedEventType = "MembershipStatusChanged"

// MembershipStatusChanged represents a membership status transition, either
// by staff action or by the automated expiry sweep.
type MembershipStatusChanged struct {
	EventType  string
	MemberID   string
	From       MembershipStatus
	To         MembershipStatus
	OccurredAt OccurredAtTS
}

// BuildMembershipStatusChanged creates a new MembershipStatusChanged event.
func BuildMembershipStatusChanged(memberID uuid.UUID, from, to MembershipStatus, occurredAt time.Time) MembershipStatusChanged {
	return MembershipStatusChanged{
		EventType:  MembershipStatusChangedEventType,
		MemberID:   memberID.String(),
		From:       from,
		To:         to,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e MembershipStatusChanged) IsEventType() string {
	return MembershipStatusChangedEventType
}

// HasOccurredAt returns when this event occurred.
func (e MembershipStatusChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}
