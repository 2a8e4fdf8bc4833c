package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/circulation-go/core"
)

func Test_LateFee(t *testing.T) {
	due := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		returnedAt time.Time
		ratePerDay core.Cents
		graceDays  int
		expected   core.Cents
	}{
		{
			name:       "on time, no fee",
			returnedAt: due,
			ratePerDay: 25,
			graceDays:  0,
			expected:   0,
		},
		{
			name:       "same day later hour, no fee",
			returnedAt: due.Add(5 * time.Hour),
			ratePerDay: 25,
			graceDays:  0,
			expected:   0,
		},
		{
			name:       "early return, no fee",
			returnedAt: due.AddDate(0, 0, -3),
			ratePerDay: 25,
			graceDays:  0,
			expected:   0,
		},
		{
			name:       "six days late at 25 cents",
			returnedAt: due.AddDate(0, 0, 6),
			ratePerDay: 25,
			graceDays:  0,
			expected:   150,
		},
		{
			name:       "one day late",
			returnedAt: due.AddDate(0, 0, 1),
			ratePerDay: 25,
			graceDays:  0,
			expected:   25,
		},
		{
			name:       "late but within grace",
			returnedAt: due.AddDate(0, 0, 2),
			ratePerDay: 25,
			graceDays:  2,
			expected:   0,
		},
		{
			name:       "grace shifts accrual",
			returnedAt: due.AddDate(0, 0, 5),
			ratePerDay: 25,
			graceDays:  2,
			expected:   75,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fee := core.LateFee(due, tc.returnedAt, tc.ratePerDay, tc.graceDays)

			assert.Equal(t, tc.expected, fee)
		})
	}
}

func Test_DaysBetween_ComparesCalendarDays(t *testing.T) {
	a := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	b := time.Date(2025, 3, 11, 0, 15, 0, 0, time.UTC)

	assert.Equal(t, 1, core.DaysBetween(a, b))
	assert.Equal(t, -1, core.DaysBetween(b, a))
	assert.Equal(t, 0, core.DaysBetween(a, a.Add(30*time.Minute)))
}
