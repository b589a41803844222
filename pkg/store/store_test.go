package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"go.uber.org/zap"
)

func sampleLoan(t *testing.T, name string, start time.Time) loans.Loan {
	t.Helper()
	loan, err := loans.NewLoan(loans.Params{
		Name:                      name,
		Principal:                 30000,
		DownPayment:               2500,
		AnnualInterestRatePercent: 6.0,
		TermMonths:                60,
		StartDate:                 start,
		ExtraPayments: []loans.ExtraPayment{
			{Date: start.AddDate(0, 6, 0), Amount: 5000, Note: "bonus"},
			{Date: start.AddDate(0, 6, 5), Amount: 250.75, Note: "rebate"},
		},
	})
	if err != nil {
		t.Fatalf("NewLoan() error = %v", err)
	}
	return loan
}

func newStores(t *testing.T) map[string]Storage {
	t.Helper()
	sqlite, err := NewSQLiteStore(zap.NewNop(), filepath.Join(t.TempDir(), "loans.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Storage{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func assertLoanEqual(t *testing.T, got, want loans.Loan) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name || got.TermMonths != want.TermMonths {
		t.Errorf("loan identity mismatch: got %+v, want %+v", got, want)
	}
	if got.Principal != want.Principal || got.DownPayment != want.DownPayment ||
		got.AnnualInterestRatePercent != want.AnnualInterestRatePercent {
		t.Errorf("loan amounts mismatch: got %+v, want %+v", got, want)
	}
	if got.MonthlyPayment != want.MonthlyPayment {
		t.Errorf("frozen monthly payment changed: got %.12f, want %.12f", got.MonthlyPayment, want.MonthlyPayment)
	}
	if !got.StartDate.Equal(want.StartDate) {
		t.Errorf("start date mismatch: got %s, want %s", got.StartDate, want.StartDate)
	}
	if len(got.ExtraPayments) != len(want.ExtraPayments) {
		t.Fatalf("extra payments: got %d, want %d", len(got.ExtraPayments), len(want.ExtraPayments))
	}
	for i := range want.ExtraPayments {
		g, w := got.ExtraPayments[i], want.ExtraPayments[i]
		if !g.Date.Equal(w.Date) || g.Amount != w.Amount || g.Note != w.Note {
			t.Errorf("extra payment %d: got %+v, want %+v", i, g, w)
		}
	}
}

func TestStorageRoundTrip(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			loan := sampleLoan(t, "Civic", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
			if err := s.CreateLoan(loan); err != nil {
				t.Fatalf("CreateLoan() error = %v", err)
			}

			fetched, err := s.GetLoan(loan.ID)
			if err != nil {
				t.Fatalf("GetLoan() error = %v", err)
			}
			assertLoanEqual(t, fetched, loan)

			// The engine produces identical results from the stored snapshot.
			now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
			if loans.CurrentBalance(fetched, now) != loans.CurrentBalance(loan, now) {
				t.Error("stored loan evaluates differently from the original")
			}
		})
	}
}

func TestStorageListOrdersByStartDate(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			later := sampleLoan(t, "Truck", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
			earlier := sampleLoan(t, "Sedan", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
			for _, loan := range []loans.Loan{later, earlier} {
				if err := s.CreateLoan(loan); err != nil {
					t.Fatalf("CreateLoan() error = %v", err)
				}
			}

			list, err := s.ListLoans()
			if err != nil {
				t.Fatalf("ListLoans() error = %v", err)
			}
			if len(list) != 2 {
				t.Fatalf("ListLoans() returned %d loans, expected 2", len(list))
			}
			if list[0].Name != "Sedan" || list[1].Name != "Truck" {
				t.Errorf("unexpected order: %s, %s", list[0].Name, list[1].Name)
			}
			if len(list[1].ExtraPayments) != 2 {
				t.Errorf("expected extra payments on listed loans, got %d", len(list[1].ExtraPayments))
			}
		})
	}
}

func TestStorageAddExtraPaymentKeepsOrder(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			loan := sampleLoan(t, "Civic", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
			if err := s.CreateLoan(loan); err != nil {
				t.Fatalf("CreateLoan() error = %v", err)
			}

			extra := loans.ExtraPayment{Date: time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), Amount: 99.99, Note: "round-up"}
			if err := s.AddExtraPayment(loan.ID, extra); err != nil {
				t.Fatalf("AddExtraPayment() error = %v", err)
			}

			fetched, err := s.GetLoan(loan.ID)
			if err != nil {
				t.Fatalf("GetLoan() error = %v", err)
			}
			assertLoanEqual(t, fetched, loan.WithExtraPayment(extra))
		})
	}
}

func TestStorageUpdateAndDelete(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			loan := sampleLoan(t, "Civic", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
			if err := s.CreateLoan(loan); err != nil {
				t.Fatalf("CreateLoan() error = %v", err)
			}

			loan.Name = "Civic Si"
			loan.ExtraPayments = loan.ExtraPayments[:1]
			if err := s.UpdateLoan(loan); err != nil {
				t.Fatalf("UpdateLoan() error = %v", err)
			}
			fetched, err := s.GetLoan(loan.ID)
			if err != nil {
				t.Fatalf("GetLoan() error = %v", err)
			}
			assertLoanEqual(t, fetched, loan)

			if err := s.DeleteLoan(loan.ID); err != nil {
				t.Fatalf("DeleteLoan() error = %v", err)
			}
			if _, err := s.GetLoan(loan.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetLoan() after delete error = %v, expected ErrNotFound", err)
			}
		})
	}
}

func TestStorageNotFound(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			missing := uuid.New()
			ghost := sampleLoan(t, "Ghost", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

			checks := map[string]error{
				"get":    func() error { _, err := s.GetLoan(missing); return err }(),
				"update": s.UpdateLoan(ghost),
				"delete": s.DeleteLoan(missing),
				"extra":  s.AddExtraPayment(missing, loans.ExtraPayment{Date: time.Now(), Amount: 1}),
			}
			for op, err := range checks {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("%s: error = %v, expected ErrNotFound", op, err)
				}
			}
		})
	}
}

func TestMemoryStoreRejectsDuplicate(t *testing.T) {
	s := NewMemoryStore()
	loan := sampleLoan(t, "Civic", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	if err := s.CreateLoan(loan); err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}
	if err := s.CreateLoan(loan); err == nil {
		t.Error("expected duplicate CreateLoan to fail")
	}
}
