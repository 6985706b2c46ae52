package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	testCases := []struct {
		name     string
		amount   float64
		code     string
		expected string
	}{
		{name: "Pounds", amount: 12.5, code: "GBP", expected: "£12.50"},
		{name: "Grouping", amount: 24567.89, code: "GBP", expected: "£24,567.89"},
		{name: "Dollars", amount: 8, code: "USD", expected: "$8.00"},
		{name: "Lower case code", amount: 3.1, code: "eur", expected: "€3.10"},
		{name: "Default currency", amount: 1, code: "", expected: "£1.00"},
		{name: "Negative amount", amount: -42.1, code: "GBP", expected: "-£42.10"},
		{name: "Unknown code", amount: 12.5, code: "ZZZ", expected: "£12.50"},
		{name: "Malformed code", amount: 1234.5, code: "NOTACODE", expected: "£1234.50"},
		{name: "Unknown code negative", amount: -3.25, code: "ZZZ", expected: "£-3.25"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Currency(tc.amount, tc.code))
		})
	}
}

func TestCurrencySymbolsFollowCLDR(t *testing.T) {
	assert.Equal(t, "¥500.00", Currency(500, "JPY"))
	assert.Equal(t, "₹99.00", Currency(99, "INR"))
	assert.Equal(t, "CHF 19.90", Currency(19.9, "CHF"))
}

func TestCurrencyContainsTwoDecimals(t *testing.T) {
	for _, code := range []string{"GBP", "USD", "EUR", "CHF", "SEK"} {
		assert.Contains(t, Currency(19.9, code), "19.90", code)
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "2,847", Number(2847))
	assert.Equal(t, "1,234.57", Number(1234.567))
	assert.Equal(t, "0", Number(0))
}

func TestPercentage(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		showSign bool
		expected string
	}{
		{name: "Positive with sign", value: 12.5, showSign: true, expected: "+12.5%"},
		{name: "Positive without sign", value: 12.5, showSign: false, expected: "12.5%"},
		{name: "Negative with sign", value: -2.1, showSign: true, expected: "-2.1%"},
		{name: "Negative without sign", value: -2.1, showSign: false, expected: "-2.1%"},
		{name: "Zero with sign", value: 0, showSign: true, expected: "0%"},
		{name: "Zero without sign", value: 0, showSign: false, expected: "0%"},
		{name: "Integer", value: 8, showSign: true, expected: "+8%"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Percentage(tc.value, tc.showSign))
		})
	}
}

func TestNewWithInvalidLocale(t *testing.T) {
	f := New("not a locale!!", "")
	assert.Equal(t, "en-GB", f.Locale())
	assert.Equal(t, "GBP", f.DefaultCurrency())
	assert.Equal(t, "£5.00", f.Currency(5, ""))
}
