// Package constants provides shared constants for the paydown-forecast application.
package constants

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = "2006-01-02"

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// SemiMonthlyPeriodsPerYear is the number of semi-monthly pay periods in a year
	SemiMonthlyPeriodsPerYear = 24

	// BiWeeklyPeriodsPerYear is the number of bi-weekly pay periods in a year
	BiWeeklyPeriodsPerYear = 26

	// WeeklyPeriodsPerYear is the number of weekly pay periods in a year
	WeeklyPeriodsPerYear = 52

	// DaysPerYear is used to annualize custom day-step schedules
	DaysPerYear = 365

	// DaysPerWeek is the step of a weekly schedule
	DaysPerWeek = 7

	// DaysPerFortnight is the step of a bi-weekly schedule
	DaysPerFortnight = 14

	// MaxAnchorDay is the largest day-of-month a monthly schedule may anchor on
	MaxAnchorDay = 31
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places kept for money
	CurrencyPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PayoffThreshold is the loan balance under which a loan counts as paid off
	PayoffThreshold = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultTaxRate is the flat tax withheld from gross income
	DefaultTaxRate = 0.12

	// DefaultGraceDays is the window after origination in which no payment is due
	DefaultGraceDays = 10
)

// Minimum payment policy defaults
const (
	// MinimumPaymentPercentage charges a percentage of the balance
	MinimumPaymentPercentage = 1

	// MinimumPaymentTiered charges a percentage above the high threshold, a
	// fixed amount between the thresholds and the payoff amount below
	MinimumPaymentTiered = 2

	// DefaultMinimumPaymentLow is the lower balance threshold
	DefaultMinimumPaymentLow = 25.0

	// DefaultMinimumPaymentHigh is the upper balance threshold
	DefaultMinimumPaymentHigh = 1000.0

	// DefaultMinimumPaymentRate is the fraction of the balance charged
	DefaultMinimumPaymentRate = 0.02
)

// Ledger descriptions and event keys
const (
	DescriptionPaycheck    = "paycheck"
	DescriptionLoanPayment = "loan payment"
	DescriptionExpenses    = "expenses"

	EventAPR  = "apr"
	EventRate = "rate"
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

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
