package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{579.984, "$579.98"},
		{1234.5, "$1,234.50"},
		{30000, "$30,000.00"},
		{-4798.8, "-$4,798.80"},
		{1234567.891, "$1,234,567.89"},
		{-0.001, "$0.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-1234.56); got != "-1,234.56" {
		t.Errorf("NumericCurrency() = %q, expected -1,234.56", got)
	}
}

func TestRate(t *testing.T) {
	if got := Rate(6); got != "6.00%" {
		t.Errorf("Rate(6) = %q, expected 6.00%%", got)
	}
	if got := Rate(24.99); got != "24.99%" {
		t.Errorf("Rate(24.99) = %q, expected 24.99%%", got)
	}
}

func TestDate(t *testing.T) {
	if got := Date(time.Time{}); got != "-" {
		t.Errorf("Date(zero) = %q, expected -", got)
	}
	if got := Date(time.Date(2030, time.January, 15, 0, 0, 0, 0, time.UTC)); got != "2030-01-15" {
		t.Errorf("Date() = %q, expected 2030-01-15", got)
	}
}
