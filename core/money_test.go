package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libreshelf/circulation-go/core"
)

func Test_Cents_String(t *testing.T) {
	assert.Equal(t, "1.50", core.Cents(150).String())
	assert.Equal(t, "0.00", core.Cents(0).String())
	assert.Equal(t, "0.05", core.Cents(5).String())
	assert.Equal(t, "12.00", core.Cents(1200).String())
	assert.Equal(t, "-1.50", core.Cents(-150).String())
}

func Test_ParseCents(t *testing.T) {
	testCases := []struct {
		input    string
		expected core.Cents
	}{
		{input: "1.50", expected: 150},
		{input: "1.5", expected: 150},
		{input: "12", expected: 1200},
		{input: "0", expected: 0},
		{input: "0.05", expected: 5},
		{input: "-1.50", expected: -150},
		{input: " 2.25 ", expected: 225},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			cents, err := core.ParseCents(tc.input)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, cents)
		})
	}
}

func Test_ParseCents_RejectsInvalidInput(t *testing.T) {
	for _, input := range []string{"", "abc", "1.505", "1,50"} {
		t.Run(input, func(t *testing.T) {
			_, err := core.ParseCents(input)

			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}
