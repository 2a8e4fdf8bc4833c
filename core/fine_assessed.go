package core

import (
	"time"

	"github.com/google/uuid"
)

// FineAssessedEventType is the event type identifier.
const FineAssessedEventType = "FineAssessed"

// FineAssessed represents a late fee created against a loan.
type FineAssessed struct {
	EventType  string
	FineID     string
	LoanID     string
	MemberID   string
	Amount     Cents
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildFineAssessed creates a new FineAssessed event.
func BuildFineAssessed(fineID, loanID, memberID uuid.UUID, amount Cents, reason string, occurredAt time.Time) FineAssessed {
	return FineAssessed{
		EventType:  FineAssessedEventType,
		FineID:     fineID.String(),
		LoanID:     loanID.String(),
		MemberID:   memberID.String(),
		Amount:     amount,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FineAssessed) IsEventType() string {
	return FineAssessedEventType
}

// HasOccurredAt returns when this event occurred.
func (e FineAssessed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
