package core

import (
	"time"

	"github.com/google/uuid"
)

// CopyStatus is the closed set of states a physical copy can be in.
type CopyStatus string

const (
	CopyAvailable  CopyStatus = "Available"
	CopyCheckedOutStatus CopyStatus = "CheckedOut"
	CopyReserved   CopyStatus = "Reserved"
	CopyLost       CopyStatus = "Lost"
	CopyDamaged    CopyStatus = "Damaged"
)

// IsValid reports whether the status is one of the known copy states.
func (s CopyStatus) IsValid() bool {
	switch s {
	case CopyAvailable, CopyCheckedOutStatus, CopyReserved, CopyLost, CopyDamaged:
		return true
	}

	return false
}

// copyTransitions is the lifecycle state machine:
//
//	Available  -> CheckedOut
//	CheckedOut -> Available | Reserved   (return, with or without a pending reservation)
//	Reserved   -> CheckedOut | Available (claimed, or pickup window expired)
//
// Lost and Damaged are reachable from any state via staff action and only a
// staff action leads out of them again.
var copyTransitions = map[CopyStatus][]CopyStatus{
	CopyAvailable:  {CopyCheckedOutStatus},
	CopyCheckedOutStatus: {CopyAvailable, CopyReserved},
	CopyReserved:   {CopyCheckedOutStatus, CopyAvailable},
	CopyLost:       {},
	CopyDamaged:    {},
}

// CanTransitionTo reports whether the circulation lifecycle allows moving a
// copy from s to target. Staff actions (ReportCopy and manual reset) are the
// exception and are checked by the respective feature, not here.
func (s CopyStatus) CanTransitionTo(target CopyStatus) bool {
	for _, allowed := range copyTransitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

// BookCopy is the unit of lending: one physical instance of a Book. Version
// guards every status change with a compare-and-swap so two concurrent
// checkouts on the same copy cannot both succeed.
type BookCopy struct {
	ID      uuid.UUID
	BookID  uuid.UUID
	Status  CopyStatus
	Version uint
	AddedAt time.Time
}
