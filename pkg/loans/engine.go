package loans

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/constants"
	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/mathutil"
	"go.uber.org/zap"
)

// CollisionPolicy decides how extra payments that land in the same schedule
// month are combined.
type CollisionPolicy int

const (
	// FirstMatch applies only the first extra payment found for a month, in
	// the order they are stored on the loan. Later ones are ignored.
	FirstMatch CollisionPolicy = iota
	// Sum applies every extra payment found for a month.
	Sum
)

// String returns the configuration name of the policy.
func (p CollisionPolicy) String() string {
	switch p {
	case Sum:
		return constants.PolicySum
	default:
		return constants.PolicyFirstMatch
	}
}

// ParseCollisionPolicy maps a configuration value onto a policy. An empty
// value selects FirstMatch.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", constants.PolicyFirstMatch:
		return FirstMatch, nil
	case constants.PolicySum:
		return Sum, nil
	default:
		return FirstMatch, fmt.Errorf("expected extra payment policy of %s or %s, got %s",
			constants.PolicyFirstMatch, constants.PolicySum, value)
	}
}

var defaultEngine = NewEngine(nil, FirstMatch)

// Engine evaluates loans. It holds no per-loan state; every call recomputes
// from the loan snapshot it is given.
type Engine struct {
	logger *zap.Logger
	policy CollisionPolicy
}

// NewEngine creates a new engine instance
func NewEngine(logger *zap.Logger, policy CollisionPolicy) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, policy: policy}
}

// Policy returns the engine's collision policy.
func (e *Engine) Policy() CollisionPolicy {
	return e.policy
}

// ExtraPaymentsByMonth maps each extra payment onto its 0-based schedule month
// index and combines same-month payments according to the engine's policy.
func (e *Engine) ExtraPaymentsByMonth(loan Loan) map[int]float64 {
	extras := make(map[int]float64, len(loan.ExtraPayments))
	for _, extra := range loan.ExtraPayments {
		month := datetime.MonthIndexOf(loan.StartDate, extra.Date)
		if _, taken := extras[month]; taken && e.policy == FirstMatch {
			e.logger.Debug(fmt.Sprintf("ignoring extra payment %.2f for loan %s: month %d already has one",
				extra.Amount, loan.Name, month),
				zap.String("op", "loans.ExtraPaymentsByMonth"),
			)
			continue
		}
		extras[month] += extra.Amount
	}
	return extras
}

// ReplayBalance replays the schedule for months 0 through throughMonth-1 and
// returns the resulting balance, interest paid and principal paid. The
// balance never goes negative and replay stops once the loan is retired.
func (e *Engine) ReplayBalance(loan Loan, throughMonth int) Replay {
	extras := e.ExtraPaymentsByMonth(loan)

	balance := loan.Principal
	interestPaid := 0.0
	for month := 0; month < throughMonth; month++ {
		if mathutil.IsPaidOff(balance) {
			break
		}
		interest := CalculateInterestPayment(balance, loan.AnnualInterestRatePercent)
		principalPortion := loan.MonthlyPayment - interest + extras[month]
		balance -= principalPortion
		interestPaid += interest
	}

	balance = mathutil.FloorBalance(balance)
	return Replay{
		Balance:       balance,
		InterestPaid:  interestPaid,
		PrincipalPaid: loan.Principal - balance,
	}
}

// CurrentBalance returns the outstanding principal as of now.
func (e *Engine) CurrentBalance(loan Loan, now time.Time) float64 {
	return e.replayToDate(loan, now).Balance
}

// InterestPaidToDate returns the interest paid as of now.
func (e *Engine) InterestPaidToDate(loan Loan, now time.Time) float64 {
	return e.replayToDate(loan, now).InterestPaid
}

// PrincipalPaidToDate returns the principal repaid as of now.
func (e *Engine) PrincipalPaidToDate(loan Loan, now time.Time) float64 {
	return e.replayToDate(loan, now).PrincipalPaid
}

func (e *Engine) replayToDate(loan Loan, now time.Time) Replay {
	return e.ReplayBalance(loan, datetime.MonthsElapsed(loan.StartDate, now))
}

// AmortizationSchedule creates the month-by-month ledger from month 1 until
// the nominal term ends or the balance reaches zero, whichever comes first.
func (e *Engine) AmortizationSchedule(loan Loan) []ScheduleEntry {
	if loan.TermMonths <= 0 {
		return nil
	}

	extras := e.ExtraPaymentsByMonth(loan)

	schedule := make([]ScheduleEntry, 0, min(loan.TermMonths, constants.MaxTermMonths))
	balance := loan.Principal
	for month := 0; month < loan.TermMonths; month++ {
		if mathutil.IsPaidOff(balance) {
			break
		}

		extra := extras[month]
		if extra > 0 {
			e.logger.Debug(fmt.Sprintf("month %d: applying extra principal payment %.2f for loan %s",
				month+1, extra, loan.Name),
				zap.String("op", "loans.AmortizationSchedule"),
			)
		}

		interest := CalculateInterestPayment(balance, loan.AnnualInterestRatePercent)
		principalPortion := loan.MonthlyPayment - interest + extra
		balance -= principalPortion

		schedule = append(schedule, ScheduleEntry{
			MonthNumber:      month + 1,
			Date:             datetime.AddMonths(loan.StartDate, month+1),
			Payment:          loan.MonthlyPayment + extra,
			Principal:        principalPortion,
			Interest:         interest,
			RemainingBalance: mathutil.FloorBalance(balance),
		})
	}

	if n := len(schedule); n > 0 && n < loan.TermMonths {
		e.logger.Debug(fmt.Sprintf("loan %s paid off early after %d of %d months", loan.Name, n, loan.TermMonths),
			zap.String("op", "loans.AmortizationSchedule"),
		)
	}
	return schedule
}
