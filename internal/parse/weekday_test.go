package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekday(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Canonical", raw: "Monday", expected: "Monday"},
		{name: "Upper case", raw: "FRIDAY", expected: "Friday"},
		{name: "Abbreviation", raw: "wed", expected: "Wednesday"},
		{name: "Abbreviation with dot", raw: "Sat.", expected: "Saturday"},
		{name: "Surrounding spaces", raw: "  sunday ", expected: "Sunday"},
		{name: "Two letter prefix", raw: "th", expected: "Thursday"},
		{name: "Single letter", raw: "s", expectErr: true},
		{name: "Unknown day", raw: "NotARealDay", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Digits", raw: "1", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			day, err := Weekday(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, day)
			}
		})
	}
}

func TestWeekdayOr(t *testing.T) {
	assert.Equal(t, "Tuesday", WeekdayOr("tue", "Monday"))
	assert.Equal(t, "Monday", WeekdayOr("NotARealDay", "Monday"))
}
