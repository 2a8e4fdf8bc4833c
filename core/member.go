package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MembershipStatus is the closed set of states a membership can be in.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "Active"
	MembershipExpired   MembershipStatus = "Expired"
	MembershipSuspended MembershipStatus = "Suspended"
)

// IsValid reports whether the status is one of the known membership states.
func (s MembershipStatus) IsValid() bool {
	switch s {
	case MembershipActive, MembershipExpired, MembershipSuspended:
		return true
	}

	return false
}

// CanTransitionTo reports whether a staff action or sweep may move a
// membership from s to target. Memberships are never physically deleted;
// Expired and Suspended act as soft-delete markers and can be reactivated.
func (s MembershipStatus) CanTransitionTo(target MembershipStatus) bool {
	if s == target || !s.IsValid() || !target.IsValid() {
		return false
	}

	return true
}

// Member is a registered library member. Only Active members may initiate
// loans or reservations.
type Member struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Status     MembershipStatus
	EnrolledAt time.Time
	ExpiresAt  time.Time
}

// CanBorrow reports whether the member's status allows initiating a loan or
// reservation. Outstanding-fine thresholds are checked separately by policy.
func (m Member) CanBorrow() bool {
	return m.Status == MembershipActive
}

// ValidateEmail enforces the column constraint: the address must contain
// both '@' and '.'.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return ValidationError("email", "must contain '@' and '.'")
	}

	return nil
}

// Staff is a library staff account. Credentials are stored as a bcrypt hash;
// login flows are out of scope.
type Staff struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	RegisteredAt time.Time
}
