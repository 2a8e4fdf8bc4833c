package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a state change that has occurred in the domain.
// Events are emitted by the feature packages after a successful mutation and
// consumed by the audit recorder.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}
