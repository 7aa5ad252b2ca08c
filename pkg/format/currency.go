// Package format renders amounts for humans: currency strings and signed percentages.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency returns a currency string with the currency's symbol and separators
// (e.g., "₹1,234.56" for INR, "-$1,234.56" for USD). Unknown codes are rendered
// as the numeric amount followed by the code.
func Currency(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	c := money.GetCurrency(code)
	if c == nil {
		return strings.TrimSpace(NumericCurrency(amount) + " " + code)
	}
	minor := int64(math.Round(amount * math.Pow10(c.Fraction)))
	return money.New(minor, code).Display()
}

// Symbol returns the display symbol of a currency code, or the code itself when unknown.
func Symbol(code string) string {
	c := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if c == nil {
		return code
	}
	return c.Grapheme
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	return sign + formatted
}

// SignedPercent renders a percentage with an explicit sign, e.g. "+12.50%".
func SignedPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
