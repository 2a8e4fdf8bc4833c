package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyReportedEventType is the event type identifier.
const CopyReportedEventType = "CopyReported"

// CopyReported represents a staff member marking a copy Lost or Damaged.
type CopyReported struct {
	EventType      string
	CopyID         string
	StaffID        string
	ReportedStatus CopyStatus
	OccurredAt     OccurredAtTS
}

// BuildCopyReported creates a new CopyReported event.
func BuildCopyReported(copyID, staffID uuid.UUID, reportedStatus CopyStatus, occurredAt time.Time) CopyReported {
	return CopyReported{
		EventType:      CopyReportedEventType,
		CopyID:         copyID.String(),
		StaffID:        staffID.String(),
		ReportedStatus: reportedStatus,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CopyReported) IsEventType() string {
	return CopyReportedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CopyReported) HasOccurredAt() time.Time {
	return e.OccurredAt
}
