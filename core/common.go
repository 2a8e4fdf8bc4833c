package core

import (
	"time"
)

// OccurredAtTS represents when an event occurred or a command was issued.
type OccurredAtTS = time.Time

// ToOccurredAt normalizes a time to UTC with microsecond precision, which is
// the precision the timestamp columns store.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// DaysBetween returns the number of whole calendar days from a to b,
// comparing dates only (times of day are ignored). Negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	au := a.UTC()
	bu := b.UTC()
	ad := time.Date(au.Year(), au.Month(), au.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(bu.Year(), bu.Month(), bu.Day(), 0, 0, 0, 0, time.UTC)

	return int(bd.Sub(ad).Hours() / 24)
}
