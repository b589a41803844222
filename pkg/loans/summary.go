package loans

import (
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/datetime"
)

// Summary gathers every derived quantity of a loan evaluated at one instant.
type Summary struct {
	MonthlyPayment      float64
	MonthsElapsed       int
	MonthsRemaining     int
	PayoffDate          time.Time
	CurrentBalance      float64
	InterestPaidToDate  float64
	PrincipalPaidToDate float64
	TotalInterest       float64
	TotalCost           float64

	// ScheduledInterest is the interest incurred over the schedule with extra
	// payments applied; TotalInterest stays nominal.
	ScheduledInterest float64
	// ProjectedPayoffDate is the date of the final schedule entry, earlier than
	// PayoffDate when extra payments retire the loan ahead of term.
	ProjectedPayoffDate time.Time
}

// Summarize evaluates the loan as of now.
func (e *Engine) Summarize(loan Loan, now time.Time) Summary {
	elapsed := datetime.MonthsElapsed(loan.StartDate, now)
	replay := e.ReplayBalance(loan, elapsed)

	summary := Summary{
		MonthlyPayment:      loan.MonthlyPayment,
		MonthsElapsed:       elapsed,
		MonthsRemaining:     MonthsRemaining(loan.TermMonths, elapsed),
		PayoffDate:          PayoffDate(loan.StartDate, loan.TermMonths),
		CurrentBalance:      replay.Balance,
		InterestPaidToDate:  replay.InterestPaid,
		PrincipalPaidToDate: replay.PrincipalPaid,
		TotalInterest:       TotalInterest(loan),
		TotalCost:           TotalCost(loan),
	}

	schedule := e.AmortizationSchedule(loan)
	for _, entry := range schedule {
		summary.ScheduledInterest += entry.Interest
	}
	if n := len(schedule); n > 0 {
		summary.ProjectedPayoffDate = schedule[n-1].Date
	} else {
		summary.ProjectedPayoffDate = summary.PayoffDate
	}
	return summary
}
