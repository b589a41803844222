package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/loans"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"pretty", false},
		{"csv", false},
		{"json", true},
		{"", true},
		{"CSV", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidOutputFormat) {
				t.Errorf("expected ErrInvalidOutputFormat, got %v", err)
			}
		})
	}
}

func testLoan(t *testing.T, extras ...loans.ExtraPayment) loans.Loan {
	t.Helper()
	loan, err := loans.NewLoan(loans.Params{
		Name:                      "Truck",
		Principal:                 20000,
		AnnualInterestRatePercent: 5,
		TermMonths:                24,
		StartDate:                 time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		ExtraPayments:             extras,
	})
	if err != nil {
		t.Fatalf("NewLoan() error = %v", err)
	}
	return loan
}

func TestLoanWarningsClean(t *testing.T) {
	loan := testLoan(t, loans.ExtraPayment{Date: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), Amount: 500})
	if warnings := LoanWarnings(loan, loans.FirstMatch); warnings != nil {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestLoanWarnings(t *testing.T) {
	loan := testLoan(t,
		loans.ExtraPayment{Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), Amount: 100},
		loans.ExtraPayment{Date: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), Amount: 200},
		loans.ExtraPayment{Date: time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC), Amount: 300},
		loans.ExtraPayment{Date: time.Date(2028, time.July, 1, 0, 0, 0, 0, time.UTC), Amount: 400},
	)

	tests := []struct {
		name     string
		policy   loans.CollisionPolicy
		contains []string
	}{
		{
			name:   "first match",
			policy: loans.FirstMatch,
			contains: []string{
				"extra payment 1 is dated before the loan start",
				"extra payment 3 shares month 5 with extra payment 2 and will be ignored",
				"extra payment 4 falls after the payoff date",
			},
		},
		{
			name:   "sum",
			policy: loans.Sum,
			contains: []string{
				"extra payment 3 shares month 5 with extra payment 2 and will be added to it",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := LoanWarnings(loan, tt.policy)
			joined := strings.Join(warnings, "\n")
			for _, want := range tt.contains {
				if !strings.Contains(joined, want) {
					t.Errorf("warnings missing %q:\n%s", want, joined)
				}
			}
			if len(warnings) != 3 {
				t.Errorf("expected 3 warnings, got %d: %v", len(warnings), warnings)
			}
		})
	}
}
