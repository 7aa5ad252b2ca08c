// Package constants provides shared constants for the investment-tracker application.
package constants

import "time"

// DateLayout is the format used for buy dates, goal target dates and form input.
const DateLayout = "2006-01-02"

// MonthYearLayout is the display format for projected goal dates.
const MonthYearLayout = "January 2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DaysPerProjectedMonth is the day count used when turning a month count into a calendar date
	DaysPerProjectedMonth = 30
)

// Goal projection limits
const (
	// MaxProjectionMonths is the horizon after which a goal is considered unreachable (50 years)
	MaxProjectionMonths = 600

	// MaxChartMonths caps the trajectory length used for charting (10 years)
	MaxChartMonths = 120

	// DefaultChartMonths is the trajectory length when no positive month count exists
	DefaultChartMonths = 60

	// OnTrackTolerance is the multiplier applied to a goal type's typical months
	OnTrackTolerance = 1.2

	// DefaultExpectedReturn is the annual return percentage assumed when none is given
	DefaultExpectedReturn = 8.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment overrides, e.g. INVESTMENT_TRACKER_SERVER_ADDRESS
	EnvPrefix = "INVESTMENT_TRACKER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for CSV imports (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Market data defaults
const (
	// DefaultDatabasePath is the SQLite file used when none is configured
	DefaultDatabasePath = "investment-tracker.db"

	// DefaultPriceTTL is how long a fetched price stays fresh
	DefaultPriceTTL = 5 * time.Minute

	// DefaultDividendTTL is how long a fetched dividend rate stays fresh
	DefaultDividendTTL = 24 * time.Hour

	// DefaultMarketBaseURL is the chart/search API root
	DefaultMarketBaseURL = "https://query1.finance.yahoo.com"

	// DefaultNewsBaseURL is the NewsAPI root
	DefaultNewsBaseURL = "https://newsapi.org"

	// DefaultHTTPTimeout applies to outbound provider calls
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultUserAgent is sent to market providers that reject anonymous clients
	DefaultUserAgent = "Mozilla/5.0 (compatible; investment-tracker/1.0)"

	// DefaultCurrency is the currency assumed for quotes without one
	DefaultCurrency = "INR"

	// DefaultMarket is the market code assumed for quotes without one
	DefaultMarket = "IN"

	// DefaultAIModel is the Gemini model used for portfolio reviews
	DefaultAIModel = "gemini-flash-latest"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)
