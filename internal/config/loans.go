package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
)

// Loan indicates a loan and its parameters.
type Loan struct {
	ID            string         `yaml:"id,omitempty"`
	Name          string         `yaml:"name"`
	StartDate     string         `yaml:"startDate"`
	Principal     float64        `yaml:"principal"`
	DownPayment   float64        `yaml:"downPayment,omitempty"`
	InterestRate  float64        `yaml:"interestRate"` // annual percent
	Term          int            `yaml:"term"`         // months
	ExtraPayments []ExtraPayment `yaml:"extraPayments,omitempty"`
}

// ExtraPayment is a one-time principal payment.
type ExtraPayment struct {
	Date   string  `yaml:"date"`
	Amount float64 `yaml:"amount"`
	Note   string  `yaml:"note,omitempty"`
}

// ToLoan parses the configured values and originates the loan, freezing its
// monthly payment.
func (loan Loan) ToLoan() (loans.Loan, error) {
	var id uuid.UUID
	if loan.ID != "" {
		parsed, err := uuid.Parse(loan.ID)
		if err != nil {
			return loans.Loan{}, fmt.Errorf("invalid loan id %q: %w", loan.ID, err)
		}
		id = parsed
	}

	start, err := datetime.ParseDate(loan.StartDate)
	if err != nil {
		return loans.Loan{}, fmt.Errorf("invalid start date: %w", err)
	}

	extras := make([]loans.ExtraPayment, 0, len(loan.ExtraPayments))
	for i, extra := range loan.ExtraPayments {
		date, err := datetime.ParseDate(extra.Date)
		if err != nil {
			return loans.Loan{}, fmt.Errorf("extra payment %d: %w", i+1, err)
		}
		extras = append(extras, loans.ExtraPayment{Date: date, Amount: extra.Amount, Note: extra.Note})
	}

	return loans.NewLoan(loans.Params{
		ID:                        id,
		Name:                      loan.Name,
		Principal:                 loan.Principal,
		DownPayment:               loan.DownPayment,
		AnnualInterestRatePercent: loan.InterestRate,
		TermMonths:                loan.Term,
		StartDate:                 start,
		ExtraPayments:             extras,
	})
}

// FromLoan converts a loan back into its configuration form.
func FromLoan(loan loans.Loan) Loan {
	result := Loan{
		Name:         loan.Name,
		StartDate:    loan.StartDate.Format(datetime.DateLayout),
		Principal:    loan.Principal,
		DownPayment:  loan.DownPayment,
		InterestRate: loan.AnnualInterestRatePercent,
		Term:         loan.TermMonths,
	}
	if loan.ID != uuid.Nil {
		result.ID = loan.ID.String()
	}
	for _, extra := range loan.ExtraPayments {
		result.ExtraPayments = append(result.ExtraPayments, ExtraPayment{
			Date:   extra.Date.Format(datetime.DateLayout),
			Amount: extra.Amount,
			Note:   extra.Note,
		})
	}
	return result
}
