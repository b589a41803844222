// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/loans"
)

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CarLoan returns the reference 30000 at 6% over 60 months loan starting
// 2025-01-15 with the given extra payments.
func CarLoan(t testing.TB, extras ...loans.ExtraPayment) loans.Loan {
	t.Helper()
	loan, err := loans.NewLoan(loans.Params{
		Name:                      "Civic",
		Principal:                 30000,
		DownPayment:               5000,
		AnnualInterestRatePercent: 6.0,
		TermMonths:                60,
		StartDate:                 Date(2025, time.January, 15),
		ExtraPayments:             extras,
	})
	if err != nil {
		t.Fatalf("failed to create car loan: %v", err)
	}
	return loan
}

// SamplePortfolio returns an amortizing car loan with one extra payment and
// an interest-free motorcycle loan.
func SamplePortfolio(t testing.TB) []loans.Loan {
	t.Helper()
	motorcycle, err := loans.NewLoan(loans.Params{
		Name:       "Motorcycle",
		Principal:  9000,
		TermMonths: 36,
		StartDate:  Date(2024, time.June, 1),
	})
	if err != nil {
		t.Fatalf("failed to create motorcycle loan: %v", err)
	}

	return []loans.Loan{
		CarLoan(t, loans.ExtraPayment{Date: Date(2025, time.July, 15), Amount: 5000, Note: "bonus"}),
		motorcycle,
	}
}
