package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libreshelf/circulation-go/core"
)

func Test_CopyStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    core.CopyStatus
		to      core.CopyStatus
		allowed bool
	}{
		{from: core.CopyAvailable, to: core.CopyCheckedOutStatus, allowed: true},
		{from: core.CopyAvailable, to: core.CopyReserved, allowed: false},
		{from: core.CopyCheckedOutStatus, to: core.CopyAvailable, allowed: true},
		{from: core.CopyCheckedOutStatus, to: core.CopyReserved, allowed: true},
		{from: core.CopyCheckedOutStatus, to: core.CopyCheckedOutStatus, allowed: false},
		{from: core.CopyReserved, to: core.CopyCheckedOutStatus, allowed: true},
		{from: core.CopyReserved, to: core.CopyAvailable, allowed: true},
		{from: core.CopyLost, to: core.CopyAvailable, allowed: false},
		{from: core.CopyDamaged, to: core.CopyAvailable, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func Test_CopyStatus_IsValid(t *testing.T) {
	assert.True(t, core.CopyAvailable.IsValid())
	assert.True(t, core.CopyDamaged.IsValid())
	assert.False(t, core.CopyStatus("Missing").IsValid())
}
