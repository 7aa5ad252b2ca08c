// Package datetime provides date and time utility functions.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/constants"
)

const (
	// DateLayout is the format expected in forms, imports and storage.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a YYYY-MM-DD date after trimming whitespace.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// ParseDateOr parses a YYYY-MM-DD date, returning fallback when value is blank.
func ParseDateOr(value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return ParseDate(value)
}

// ProjectMonths returns the date reached after the given number of projected months,
// where every month counts as a fixed number of days.
func ProjectMonths(from time.Time, months int) time.Time {
	return from.AddDate(0, 0, months*constants.DaysPerProjectedMonth)
}

// FormatMonthYear renders a date as e.g. "March 2027".
func FormatMonthYear(t time.Time) string {
	return t.Format(constants.MonthYearLayout)
}
