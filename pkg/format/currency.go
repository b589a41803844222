// Package format renders amounts, rates and dates for human-readable output.
package format

import (
	"math"
	"time"

	"github.com/iwvelando/vehicle-loan/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Rate renders an annual percentage rate, e.g. 6 -> "6.00%".
func Rate(percent float64) string {
	return printer.Sprintf("%.2f%%", percent)
}

// Date renders a date in the configuration layout, or "-" for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(constants.DateLayout)
}
