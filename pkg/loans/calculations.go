// Package loans implements fixed-rate, monthly-compounding loan amortization
// with support for one-time extra principal payments.
package loans

import (
	"math"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/mathutil"
)

// ScheduleEntry is one row of the amortization ledger.
type ScheduleEntry struct {
	MonthNumber      int
	Date             time.Time
	Payment          float64
	Principal        float64
	Interest         float64
	RemainingBalance float64
}

// Replay holds the state of a loan after replaying a number of months.
type Replay struct {
	Balance       float64
	InterestPaid  float64
	PrincipalPaid float64
}

// ComputeMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. A non-positive principal or term yields 0,
// mirroring a loan that has not been configured yet. The discount form
// principal*r / (1 - (1+r)^-n) stays finite for long terms, tending to
// principal*r.
func ComputeMonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}

	r := PeriodicRate(annualRatePercent)
	if r == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	return principal * r / (1 - math.Pow(1+r, -float64(termMonths)))
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * PeriodicRate(annualRatePercent)
}

// MonthsRemaining returns the months left on the nominal term.
func MonthsRemaining(termMonths, monthsElapsed int) int {
	return mathutil.MaxInt(termMonths-monthsElapsed, 0)
}

// PayoffDate returns the nominal payoff date, termMonths calendar months after
// the start date.
func PayoffDate(startDate time.Time, termMonths int) time.Time {
	return datetime.AddMonths(startDate, termMonths)
}

// TotalInterest is the nominal interest over the full term. Extra payments are
// deliberately not reflected here; see Summary.ScheduledInterest for the
// interest actually incurred when they are applied.
func TotalInterest(loan Loan) float64 {
	return loan.MonthlyPayment*float64(loan.TermMonths) - loan.Principal
}

// TotalCost is the nominal cost of the loan including the down payment.
func TotalCost(loan Loan) float64 {
	return loan.Principal + TotalInterest(loan) + loan.DownPayment
}

// ReplayBalance replays the loan from month 0 through throughMonth-1 using the
// default engine.
func ReplayBalance(loan Loan, throughMonth int) Replay {
	return defaultEngine.ReplayBalance(loan, throughMonth)
}

// CurrentBalance returns the outstanding principal as of now.
func CurrentBalance(loan Loan, now time.Time) float64 {
	return defaultEngine.CurrentBalance(loan, now)
}

// InterestPaidToDate returns the interest paid as of now.
func InterestPaidToDate(loan Loan, now time.Time) float64 {
	return defaultEngine.InterestPaidToDate(loan, now)
}

// PrincipalPaidToDate returns the principal repaid as of now.
func PrincipalPaidToDate(loan Loan, now time.Time) float64 {
	return defaultEngine.PrincipalPaidToDate(loan, now)
}

// AmortizationSchedule builds the full schedule using the default engine.
func AmortizationSchedule(loan Loan) []ScheduleEntry {
	return defaultEngine.AmortizationSchedule(loan)
}
