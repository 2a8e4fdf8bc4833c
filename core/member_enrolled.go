package core

import (
	"time"

	"github.com/google/uuid"
)

// MemberEnrolledEventType is the event type identifier.
const MemberEnrolledEventType = "MemberEnrolled"

// MemberEnrolled represents a new member enrollment.
type MemberEnrolled struct {
	EventType  string
	MemberID   string
	Email      string
	ExpiresAt  time.Time
	OccurredAt OccurredAtTS
}

// BuildMemberEnrolled creates a new MemberEnrolled event.
func BuildMemberEnrolled(memberID uuid.UUID, email string, expiresAt, occurredAt time.Time) MemberEnrolled {
	return MemberEnrolled{
		EventType:  MemberEnrolledEventType,
		MemberID:   memberID.String(),
		Email:      email,
		ExpiresAt:  ToOccurredAt(expiresAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e MemberEnrolled) IsEventType() string {
	return MemberEnrolledEventType
}

// HasOccurredAt returns when this event occurred.
func (e MemberEnrolled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
