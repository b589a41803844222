// Package output provides utilities for formatting and displaying loan reports.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/vehicle-loan/internal/report"
	"github.com/iwvelando/vehicle-loan/pkg/constants"
	"github.com/iwvelando/vehicle-loan/pkg/format"
	"github.com/iwvelando/vehicle-loan/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable summary
// and schedule for every report.
func PrettyFormat(w io.Writer, reports []report.Report) {
	p := message.NewPrinter(language.English)
	for i, r := range reports {
		s := r.Summary
		fmt.Fprintf(w, "--- Loan %s (as of %s) ---\n", r.Loan.Name, format.Date(r.AsOf))
		fmt.Fprintf(w, "Principal            | %s\n", format.Currency(r.Loan.Principal))
		fmt.Fprintf(w, "Down payment         | %s\n", format.Currency(r.Loan.DownPayment))
		fmt.Fprintf(w, "Rate                 | %s\n", format.Rate(r.Loan.AnnualInterestRatePercent))
		fmt.Fprintf(w, "Monthly payment      | %s\n", format.Currency(s.MonthlyPayment))
		fmt.Fprintf(w, "Months elapsed       | %d of %d (%d remaining)\n", s.MonthsElapsed, r.Loan.TermMonths, s.MonthsRemaining)
		fmt.Fprintf(w, "Current balance      | %s\n", format.Currency(s.CurrentBalance))
		fmt.Fprintf(w, "Principal paid       | %s\n", format.Currency(s.PrincipalPaidToDate))
		fmt.Fprintf(w, "Interest paid        | %s\n", format.Currency(s.InterestPaidToDate))
		fmt.Fprintf(w, "Total interest       | %s\n", format.Currency(s.TotalInterest))
		fmt.Fprintf(w, "Total cost           | %s\n", format.Currency(s.TotalCost))
		fmt.Fprintf(w, "Payoff date          | %s\n", format.Date(s.PayoffDate))
		if !s.ProjectedPayoffDate.Equal(s.PayoffDate) {
			fmt.Fprintf(w, "Projected payoff     | %s\n", format.Date(s.ProjectedPayoffDate))
		}
		if saved := s.TotalInterest - s.ScheduledInterest; !mathutil.WithinTolerance(saved, 0, constants.CurrencyTolerance) {
			fmt.Fprintf(w, "Interest saved       | %s\n", format.Currency(saved))
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "Warning              | %s\n", warning)
		}

		fmt.Fprintf(w, "\nMonth | Date       | Payment | Principal | Interest | Balance\n")
		fmt.Fprintf(w, "_____ | __________ | _______ | _________ | ________ | _______\n")
		for _, entry := range r.Schedule {
			_, _ = p.Fprintf(w, "%5d | %s | $%.2f | $%.2f | $%.2f | $%.2f\n",
				entry.MonthNumber, format.Date(entry.Date), entry.Payment,
				entry.Principal, entry.Interest, entry.RemainingBalance)
		}
		if i < len(reports)-1 {
			fmt.Fprintf(w, "\n")
		}
	}

	if len(reports) > 1 {
		totals := report.Sum(reports)
		fmt.Fprintf(w, "\n--- Portfolio totals ---\n")
		fmt.Fprintf(w, "Monthly payment      | %s\n", format.Currency(totals.MonthlyPayment))
		fmt.Fprintf(w, "Current balance      | %s\n", format.Currency(totals.CurrentBalance))
		fmt.Fprintf(w, "Interest paid        | %s\n", format.Currency(totals.InterestPaidToDate))
		fmt.Fprintf(w, "Total interest       | %s\n", format.Currency(totals.TotalInterest))
		fmt.Fprintf(w, "Total cost           | %s\n", format.Currency(totals.TotalCost))
	}
}

// CsvFormat writes every report's schedule in comma-separated value format,
// one row per loan month.
func CsvFormat(w io.Writer, reports []report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"loan", "month", "date", "payment", "principal", "interest", "balance"}); err != nil {
		return err
	}
	for _, r := range reports {
		for _, entry := range r.Schedule {
			record := []string{
				r.Loan.Name,
				strconv.Itoa(entry.MonthNumber),
				format.Date(entry.Date),
				amount(entry.Payment),
				amount(entry.Principal),
				amount(entry.Interest),
				amount(entry.RemainingBalance),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns CsvFormat's output as a string.
func CsvString(reports []report.Report) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, reports); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

func amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(constants.CurrencyPlaces)
}
