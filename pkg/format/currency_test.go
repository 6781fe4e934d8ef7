package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{1234.56, "$1,234.56"},
		{-1234.56, "-$1,234.56"},
		{1000000, "$1,000,000.00"},
		{999.999, "$1,000.00"},
		{-0.001, "$0.00"},
	}
	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %s, expected %s", tt.amount, got, tt.expected)
		}
	}
}

func TestDecimalCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "$0.00"},
		{"20732.12", "$20,732.12"},
		{"-12356.6", "-$12,356.60"},
		{"-0.001", "$0.00"},
	}
	for _, tt := range tests {
		if got := DecimalCurrency(decimal.RequireFromString(tt.amount)); got != tt.expected {
			t.Errorf("DecimalCurrency(%s) = %s, expected %s", tt.amount, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-1234.5); got != "-1,234.50" {
		t.Errorf("NumericCurrency(-1234.5) = %s", got)
	}
	if got := NumericCurrency(12); got != "12.00" {
		t.Errorf("NumericCurrency(12) = %s", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(59.975); got != "59.975%" {
		t.Errorf("Percent(59.975) = %s", got)
	}
	if got := Percent(12.000000000000002); got != "12%" {
		t.Errorf("Percent(12.000000000000002) = %s", got)
	}
}
