// Package review asks a generative model for a written review of a portfolio
// and splits the answer into its headed sections.
package review

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/iwvelando/investment-tracker/internal/portfolio"
	"github.com/iwvelando/investment-tracker/pkg/format"
	"github.com/iwvelando/investment-tracker/pkg/mathutil"
	"go.uber.org/zap"
)

// MaxPromptHoldings caps the holdings listed in a prompt.
const MaxPromptHoldings = 20

// Messages returned in unsuccessful results.
const (
	MessageNotConfigured = "Gemini API not configured. Please set GEMINI_API_KEY."
	MessageNoResponse    = "No response from AI"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sections is a parsed review.
type Sections struct {
	Summary         string `json:"summary"`
	Strengths       string `json:"strengths"`
	Risks           string `json:"risks"`
	Recommendations string `json:"recommendations"`
	Raw             string `json:"raw"`
}

// Result is the outcome of a review request.
type Result struct {
	Success bool      `json:"success"`
	Review  *Sections `json:"review,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Reviewer produces portfolio reviews. A nil generator means reviews are not configured.
type Reviewer struct {
	logger    *zap.Logger
	generator Generator
}

// NewReviewer creates a Reviewer.
func NewReviewer(logger *zap.Logger, generator Generator) *Reviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{logger: logger, generator: generator}
}

// Configured reports whether a generator is available.
func (r *Reviewer) Configured() bool {
	return r.generator != nil
}

// Review generates and parses a review of v. Failures are reported in the
// result rather than as an error.
func (r *Reviewer) Review(ctx context.Context, v portfolio.Valuation) Result {
	if r.generator == nil {
		return Result{Error: MessageNotConfigured}
	}

	text, err := r.generator.Generate(ctx, BuildPrompt(v))
	if err != nil {
		r.logger.Error(fmt.Sprintf("error generating portfolio review: %v", err),
			zap.String("op", "review.Reviewer.Review"),
		)
		return Result{Error: fmt.Sprintf("AI analysis failed: %v", err)}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Error: MessageNoResponse}
	}

	sections := ParseSections(text)
	return Result{Success: true, Review: &sections}
}

// BuildPrompt describes v to the model and asks for a review under fixed headings.
func BuildPrompt(v portfolio.Valuation) string {
	var b strings.Builder

	totalReturn := mathutil.CalculatePercentage(v.TotalCurrent-v.TotalInvested, v.TotalInvested)

	b.WriteString("You are a professional financial analyst and portfolio advisor. ")
	b.WriteString("Analyze this Indian stock portfolio and provide a comprehensive, structured review.\n\n")

	b.WriteString("## Portfolio Data\n")
	fmt.Fprintf(&b, "- Total Invested: %s\n", format.Currency(v.TotalInvested, "INR"))
	fmt.Fprintf(&b, "- Current Value: %s\n", format.Currency(v.TotalCurrent, "INR"))
	fmt.Fprintf(&b, "- Total Return: %s\n", format.SignedPercent(totalReturn))
	fmt.Fprintf(&b, "- Number of Stocks: %d\n\n", len(v.Holdings))

	b.WriteString("### Holdings Details:\n")
	for i, p := range v.Holdings {
		if i == MaxPromptHoldings {
			break
		}
		name := p.CompanyName
		if name == "" {
			name = p.Symbol
		}
		sector := p.Sector
		if sector == "" {
			sector = "Unknown"
		}
		gainPct := mathutil.CalculatePercentage(p.GainLoss, p.Invested)
		fmt.Fprintf(&b, "- %s: %s (%+.1f%%), Sector: %s\n", name, format.Currency(p.CurrentValue, "INR"), gainPct, sector)
	}

	b.WriteString("\n### Sector Allocation:\n")
	sectors := make([]string, 0, len(v.SectorData))
	for s := range v.SectorData {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)
	for _, s := range sectors {
		fmt.Fprintf(&b, "- %s: %s\n", s, format.Currency(v.SectorData[s], "INR"))
	}

	b.WriteString(`
## Your Task
Provide a high-quality analysis with these EXACT sections (use these exact headings):

### Summary
Write a 2-3 sentence overview of the portfolio's overall health and performance. Use professional language.

### Strengths
Identify 3-4 key strengths. Use bullet points. Focus on diversification, quality of stocks, or sector exposure.

### Risks
Identify 3-4 potential risks or areas of concern. Use bullet points. Highlight concentration risk, sector headwinds, or volatility.

### Recommendations
Provide 3-4 actionable, specific suggestions to optimize the portfolio for better risk-adjusted returns.

### Formatting Guidelines:
- Use **bold** for key terms and symbols.
- Use ₹ for currency.
- Keep the tone professional but accessible.
- Each bullet point should be concise but insightful.`)

	return b.String()
}

var sectionPatterns = map[string]*regexp.Regexp{
	"summary":         sectionPattern("Summary"),
	"strengths":       sectionPattern("Strengths"),
	"risks":           sectionPattern("Risks"),
	"recommendations": sectionPattern("Recommendations"),
}

// sectionPattern matches a "##" or "###" heading and captures its body up to
// the next such heading or the end of the text.
func sectionPattern(heading string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)#{2,3}\s*` + heading + `\s*\n(.*?)(?:#{2,3}|\z)`)
}

// ParseSections extracts the Summary, Strengths, Risks and Recommendations
// sections of text. Missing sections are left empty and Raw keeps the input.
func ParseSections(text string) Sections {
	find := func(key string) string {
		m := sectionPatterns[key].FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		return strings.TrimSpace(m[1])
	}
	return Sections{
		Summary:         find("summary"),
		Strengths:       find("strengths"),
		Risks:           find("risks"),
		Recommendations: find("recommendations"),
		Raw:             text,
	}
}
