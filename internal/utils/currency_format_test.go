package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := map[string]string{
		"0":            "$0.00",
		"5":            "$5.00",
		"999.999":      "$1,000.00",
		"12345.6":      "$12,345.60",
		"123456":       "$123,456.00",
		"1234567.891":  "$1,234,567.89",
		"-5":           "-$5.00",
		"-12345.67":    "-$12,345.67",
		"100000000.01": "$100,000,000.01",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in)), in)
	}
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "12.35", FormatWithPrecision(decimal.RequireFromString("12.3456"), 2))
	assert.Equal(t, "12", FormatWithPrecision(decimal.RequireFromString("12.3456"), 0))
}
