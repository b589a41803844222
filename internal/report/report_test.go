package report

import (
	"testing"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"github.com/iwvelando/vehicle-loan/pkg/mathutil"
	"github.com/iwvelando/vehicle-loan/pkg/testutil"
	"go.uber.org/zap"
)

func TestBuild(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	portfolio := testutil.SamplePortfolio(t)
	now := testutil.Date(2026, time.January, 20)

	reports := Build(logger, loans.NewEngine(logger, loans.FirstMatch), portfolio, now)
	if len(reports) != len(portfolio) {
		t.Fatalf("expected %d reports, got %d", len(portfolio), len(reports))
	}

	for i, r := range reports {
		if r.Loan.ID != portfolio[i].ID {
			t.Errorf("report %d is for the wrong loan", i)
		}
		if !r.AsOf.Equal(now) {
			t.Errorf("report %d AsOf = %s", i, r.AsOf)
		}
		if r.Summary.CurrentBalance != loans.CurrentBalance(portfolio[i], now) {
			t.Errorf("report %d balance mismatch", i)
		}
		if len(r.Schedule) == 0 || len(r.Schedule) > portfolio[i].TermMonths {
			t.Errorf("report %d schedule length %d", i, len(r.Schedule))
		}
	}
}

func TestBuildDefaultsAndWarnings(t *testing.T) {
	loan := testutil.CarLoan(t,
		loans.ExtraPayment{Date: testutil.Date(2025, time.July, 15), Amount: 100},
		loans.ExtraPayment{Date: testutil.Date(2025, time.July, 16), Amount: 200},
	)

	reports := Build(nil, nil, []loans.Loan{loan}, testutil.Date(2025, time.December, 1))
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if len(reports[0].Warnings) != 1 {
		t.Errorf("expected a same-month collision warning, got %v", reports[0].Warnings)
	}
}

func TestSum(t *testing.T) {
	portfolio := testutil.SamplePortfolio(t)
	now := testutil.Date(2026, time.January, 20)
	reports := Build(nil, nil, portfolio, now)

	totals := Sum(reports)
	var balance, cost float64
	for _, r := range reports {
		balance += r.Summary.CurrentBalance
		cost += r.Summary.TotalCost
	}
	if totals.CurrentBalance != mathutil.Round(balance) || totals.TotalCost != mathutil.Round(cost) {
		t.Errorf("Sum() = %+v, expected balance %.2f and cost %.2f", totals, balance, cost)
	}

	// Paid-off loans do not contribute a monthly payment.
	paidOff := Build(nil, nil, portfolio, testutil.Date(2040, time.January, 1))
	if got := Sum(paidOff).MonthlyPayment; got != 0 {
		t.Errorf("MonthlyPayment for paid off portfolio = %.2f, expected 0", got)
	}
}
