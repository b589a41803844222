// Package constants provides shared constants for the vehicle-loan application.
package constants

// DateLayout is the format expected for full dates in config files and API
// payloads and is also the output date format.
const DateLayout = "2006-01-02"

// MonthLayout is the coarser year-month format accepted wherever a day of
// month is not meaningful; it resolves to the first day of that month.
const MonthLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places rendered for amounts
	CurrencyPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// BalanceEpsilon is the residue below which a running balance is
	// considered fully paid off.
	BalanceEpsilon = 1e-6

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxTermMonths is the longest term a loan may be amortized over.
	MaxTermMonths = 1200
)

// Extra payment collision policies
const (
	// PolicyFirstMatch applies only the first extra payment found for a month.
	PolicyFirstMatch = "first"

	// PolicySum applies the sum of every extra payment found for a month.
	PolicySum = "sum"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
