package validation

import (
	"fmt"

	"github.com/iwvelando/vehicle-loan/pkg/constants"
	"github.com/iwvelando/vehicle-loan/pkg/datetime"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
)

// LoanWarnings returns non-fatal observations about a loan's extra payments:
// ones dated before the start date, ones that land after the nominal term
// and will never be applied, and same-month collisions.
func LoanWarnings(loan loans.Loan, policy loans.CollisionPolicy) []string {
	var warnings []string

	payoff := loans.PayoffDate(loan.StartDate, loan.TermMonths)
	seen := make(map[int]int)
	for i, extra := range loan.ExtraPayments {
		if extra.Date.Before(loan.StartDate) {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' extra payment %d is dated before the loan start (%s < %s) and is applied to the first month",
				loan.Name, i+1, extra.Date.Format(constants.DateLayout), loan.StartDate.Format(constants.DateLayout)))
		}

		month := datetime.MonthIndexOf(loan.StartDate, extra.Date)
		if month >= loan.TermMonths {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' extra payment %d falls after the payoff date (%s > %s) and will never be applied",
				loan.Name, i+1, extra.Date.Format(constants.DateLayout), payoff.Format(constants.DateLayout)))
			continue
		}

		if first, ok := seen[month]; ok {
			if policy == loans.FirstMatch {
				warnings = append(warnings, fmt.Sprintf("Loan '%s' extra payment %d shares month %d with extra payment %d and will be ignored",
					loan.Name, i+1, month+1, first+1))
			} else {
				warnings = append(warnings, fmt.Sprintf("Loan '%s' extra payment %d shares month %d with extra payment %d and will be added to it",
					loan.Name, i+1, month+1, first+1))
			}
			continue
		}
		seen[month] = i
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
