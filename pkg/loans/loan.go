package loans

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-loan/pkg/constants"
)

// ErrInvalidLoanParameters is returned when a loan cannot be amortized with
// the supplied inputs (non-positive principal or term, negative rate, ...).
var ErrInvalidLoanParameters = errors.New("invalid loan parameters")

// ExtraPayment is a one-time principal reduction applied to whichever
// amortization month its date falls in.
type ExtraPayment struct {
	Date   time.Time
	Amount float64
	Note   string
}

// Loan is an immutable snapshot of a loan's stored fields. MonthlyPayment is
// computed once by NewLoan and is not recomputed if other fields change.
type Loan struct {
	ID                        uuid.UUID
	Name                      string
	Principal                 float64
	DownPayment               float64
	AnnualInterestRatePercent float64
	TermMonths                int
	MonthlyPayment            float64
	StartDate                 time.Time
	ExtraPayments             []ExtraPayment
}

// Params holds the inputs needed to originate a Loan.
type Params struct {
	ID                        uuid.UUID
	Name                      string
	Principal                 float64
	DownPayment               float64
	AnnualInterestRatePercent float64
	TermMonths                int
	StartDate                 time.Time
	ExtraPayments             []ExtraPayment
}

// NewLoan validates the parameters and freezes the monthly payment. A zero ID
// is replaced with a fresh random one.
func NewLoan(p Params) (Loan, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	loan := Loan{
		ID:                        id,
		Name:                      p.Name,
		Principal:                 p.Principal,
		DownPayment:               p.DownPayment,
		AnnualInterestRatePercent: p.AnnualInterestRatePercent,
		TermMonths:                p.TermMonths,
		StartDate:                 p.StartDate,
		ExtraPayments:             append([]ExtraPayment(nil), p.ExtraPayments...),
	}
	if err := loan.Validate(); err != nil {
		return Loan{}, err
	}

	loan.MonthlyPayment = ComputeMonthlyPayment(loan.Principal, loan.AnnualInterestRatePercent, loan.TermMonths)
	if err := loan.Validate(); err != nil {
		return Loan{}, err
	}
	return loan, nil
}

// Validate reports whether the loan's inputs can be amortized.
func (l Loan) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"principal", l.Principal},
		{"interest rate", l.AnnualInterestRatePercent},
		{"down payment", l.DownPayment},
	} {
		if !isFinite(f.value) {
			return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidLoanParameters, f.name, f.value)
		}
	}
	if l.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidLoanParameters, l.Principal)
	}
	if l.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be a positive number of months, got %d", ErrInvalidLoanParameters, l.TermMonths)
	}
	if l.TermMonths > constants.MaxTermMonths {
		return fmt.Errorf("%w: term must not exceed %d months, got %d", ErrInvalidLoanParameters, constants.MaxTermMonths, l.TermMonths)
	}
	if l.AnnualInterestRatePercent < 0 {
		return fmt.Errorf("%w: interest rate must not be negative, got %.4f", ErrInvalidLoanParameters, l.AnnualInterestRatePercent)
	}
	if l.DownPayment < 0 {
		return fmt.Errorf("%w: down payment must not be negative, got %.2f", ErrInvalidLoanParameters, l.DownPayment)
	}
	if l.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidLoanParameters)
	}
	if !isFinite(l.MonthlyPayment) {
		return fmt.Errorf("%w: monthly payment is not a finite number, got %v", ErrInvalidLoanParameters, l.MonthlyPayment)
	}
	for i, extra := range l.ExtraPayments {
		if !isFinite(extra.Amount) || extra.Amount <= 0 {
			return fmt.Errorf("%w: extra payment %d must be positive, got %.2f", ErrInvalidLoanParameters, i, extra.Amount)
		}
	}
	return nil
}

// WithExtraPayment returns a copy of the loan with the payment appended. The
// receiver's slice is never shared with the result.
func (l Loan) WithExtraPayment(extra ExtraPayment) Loan {
	extras := make([]ExtraPayment, 0, len(l.ExtraPayments)+1)
	extras = append(extras, l.ExtraPayments...)
	l.ExtraPayments = append(extras, extra)
	return l
}

// PeriodicRate returns the monthly periodic interest rate.
func (l Loan) PeriodicRate() float64 {
	return PeriodicRate(l.AnnualInterestRatePercent)
}

// PeriodicRate converts an annual percentage rate into a monthly rate,
// e.g. 6.0 -> 0.005.
func PeriodicRate(annualRatePercent float64) float64 {
	return annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
