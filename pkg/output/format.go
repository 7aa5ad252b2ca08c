// Package output provides utilities for formatting and displaying goal projections.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/investment-tracker/internal/goals"
	"github.com/iwvelando/investment-tracker/pkg/datetime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyTrajectory outputs a human-readable rather than machine-readable table.
func PrettyTrajectory(w io.Writer, result goals.Result) {
	p := message.NewPrinter(language.English)

	_, _ = fmt.Fprintf(w, "--- %s ---\n", result.Profile.Name)
	switch {
	case result.Months > 0:
		_, _ = fmt.Fprintf(w, "Months needed: %d (%.1f years, %s)\n", result.Months, result.Years, datetime.FormatMonthYear(result.TargetDate))
	case result.Months == 0:
		_, _ = fmt.Fprintf(w, "Months needed: 0\n")
	default:
		_, _ = fmt.Fprintf(w, "Months needed: unreachable\n")
	}
	_, _ = fmt.Fprintf(w, "Status: %s - %s\n", result.Status, result.StatusMessage)
	_, _ = p.Fprintf(w, "Required contribution: %.2f\n", result.RequiredContribution)
	_, _ = p.Fprintf(w, "Final amount: %.2f | Contributions: %.2f | Interest: %.2f\n",
		result.FinalAmount, result.TotalContributions, result.InterestEarned)
	_, _ = fmt.Fprintf(w, "Suggested: %s\n\n", strings.Join(result.Profile.SuggestedInvestments, ", "))

	_, _ = fmt.Fprintf(w, "Month | Amount        | Contributions | Interest\n")
	_, _ = fmt.Fprintf(w, "_____ | _____________ | _____________ | ________\n")
	for _, point := range result.Trajectory {
		_, _ = p.Fprintf(w, "%5d | %13.2f | %13.2f | %.2f\n", point.Month, point.Amount, point.Contributions, point.Interest)
	}
}

// CsvTrajectory outputs the trajectory in comma-separated value format.
func CsvTrajectory(w io.Writer, result goals.Result) {
	_, _ = fmt.Fprintf(w, `"month","amount","contributions","interest"`)
	_, _ = fmt.Fprintf(w, "\n")
	for _, point := range result.Trajectory {
		_, _ = fmt.Fprintf(w, `"%d","%.2f","%.2f","%.2f"`, point.Month, point.Amount, point.Contributions, point.Interest)
		_, _ = fmt.Fprintf(w, "\n")
	}
}
