// Package report evaluates a set of loans at one instant, producing the
// summary and schedule that the CLI and HTTP API render.
package report

import (
	"fmt"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"github.com/iwvelando/vehicle-loan/pkg/mathutil"
	"github.com/iwvelando/vehicle-loan/pkg/validation"
	"go.uber.org/zap"
)

// Report holds all information computed for a single loan.
type Report struct {
	Loan     loans.Loan
	AsOf     time.Time
	Summary  loans.Summary
	Schedule []loans.ScheduleEntry
	Warnings []string
}

// Build evaluates every loan as of now.
func Build(logger *zap.Logger, engine *loans.Engine, portfolio []loans.Loan, now time.Time) []Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = loans.NewEngine(logger, loans.FirstMatch)
	}

	results := make([]Report, 0, len(portfolio))
	for _, loan := range portfolio {
		results = append(results, BuildOne(logger, engine, loan, now))
	}
	return results
}

// BuildOne evaluates a single loan as of now.
func BuildOne(logger *zap.Logger, engine *loans.Engine, loan loans.Loan, now time.Time) Report {
	result := Report{
		Loan:     loan,
		AsOf:     now,
		Summary:  engine.Summarize(loan, now),
		Schedule: engine.AmortizationSchedule(loan),
		Warnings: validation.LoanWarnings(loan, engine.Policy()),
	}

	if logger != nil {
		logger.Debug(fmt.Sprintf("evaluated loan %s: balance %.2f after %d months",
			loan.Name, result.Summary.CurrentBalance, result.Summary.MonthsElapsed),
			zap.String("op", "report.BuildOne"),
			zap.Int("scheduleLength", len(result.Schedule)),
		)
	}
	return result
}

// Totals aggregates the headline figures of several reports.
type Totals struct {
	MonthlyPayment     float64
	CurrentBalance     float64
	InterestPaidToDate float64
	TotalInterest      float64
	TotalCost          float64
}

// Sum adds up the reports' summaries, rounded to cents.
func Sum(reports []Report) Totals {
	var totals Totals
	for _, r := range reports {
		if r.Summary.CurrentBalance > 0 {
			totals.MonthlyPayment += r.Summary.MonthlyPayment
		}
		totals.CurrentBalance += r.Summary.CurrentBalance
		totals.InterestPaidToDate += r.Summary.InterestPaidToDate
		totals.TotalInterest += r.Summary.TotalInterest
		totals.TotalCost += r.Summary.TotalCost
	}

	totals.MonthlyPayment = mathutil.Round(totals.MonthlyPayment)
	totals.CurrentBalance = mathutil.Round(totals.CurrentBalance)
	totals.InterestPaidToDate = mathutil.Round(totals.InterestPaidToDate)
	totals.TotalInterest = mathutil.Round(totals.TotalInterest)
	totals.TotalCost = mathutil.Round(totals.TotalCost)
	return totals
}
