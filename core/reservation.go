package core

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the closed set of states a reservation can be in.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationFulfilled ReservationStatus = "Fulfilled"
	ReservationCancelledStatus ReservationStatus = "Cancelled"
	ReservationExpiredStatus   ReservationStatus = "Expired"
)

// IsValid reports whether the status is one of the known reservation states.
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationPending, ReservationFulfilled, ReservationCancelledStatus, ReservationExpiredStatus:
		return true
	}

	return false
}

// CanTransitionTo implements the reservation state machine:
//
//	Pending   -> Fulfilled | Cancelled | Expired
//	Fulfilled -> Expired (pickup window ran out)
//
// Cancelled and Expired are terminal.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return target == ReservationFulfilled || target == ReservationCancelledStatus || target == ReservationExpiredStatus
	case ReservationFulfilled:
		return target == ReservationExpiredStatus
	}

	return false
}

// Reservation is a member's claim on a Book (not a specific copy). Pending
// reservations for the same book are fulfilled strictly FIFO by
// ReservationDate. On fulfillment the reservation is bound to the returning
// copy via CopyID and FulfilledAt starts the pickup window.
type Reservation struct {
	ID              uuid.UUID
	BookID          uuid.UUID
	MemberID        uuid.UUID
	Status          ReservationStatus
	ReservationDate time.Time
	ExpirationDate  time.Time
	CopyID          *uuid.UUID
	FulfilledAt     *time.Time
}

// Validate enforces the reservation date invariant.
func (r Reservation) Validate() error {
	if !r.ExpirationDate.After(r.ReservationDate) {
		return ValidationError("expiration_date", "must be after reservation_date")
	}

	return nil
}

// IsHeldFor reports whether this reservation is a fulfilled claim binding
// the given copy to the given member, i.e. the member may claim the Reserved
// copy by checking it out.
func (r Reservation) IsHeldFor(copyID, memberID uuid.UUID) bool {
	return r.Status == ReservationFulfilled &&
		r.CopyID != nil && *r.CopyID == copyID &&
		r.MemberID == memberID
}
