package testutil

import (
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	got := Date(2025, time.March, 9)
	if got.Location() != time.UTC || got.Day() != 9 || got.Hour() != 0 {
		t.Errorf("Date() = %s", got)
	}
}

func TestSamplePortfolio(t *testing.T) {
	portfolio := SamplePortfolio(t)
	if len(portfolio) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(portfolio))
	}
	if portfolio[0].ID == portfolio[1].ID {
		t.Error("expected distinct loan IDs")
	}
	if portfolio[1].MonthlyPayment != 250 {
		t.Errorf("motorcycle MonthlyPayment = %.2f, expected 250", portfolio[1].MonthlyPayment)
	}
	if len(portfolio[0].ExtraPayments) != 1 {
		t.Errorf("expected one extra payment on the car loan")
	}
}
