package portfolio

import (
	"github.com/iwvelando/investment-tracker/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Diversification thresholds.
const (
	// TargetSectors is the sector count that earns a full diversification score.
	TargetSectors = 8
	// ConcentrationShare is the portfolio share above which one sector is a concentration risk.
	ConcentrationShare = 0.5
	// SmallPortfolio and LargePortfolio bound the holding counts that trigger size insights.
	SmallPortfolio = 5
	LargePortfolio = 20
)

// Health and risk labels.
const (
	LabelNA              = "N/A"
	HealthGood           = "Good"
	HealthModerate       = "Moderate"
	HealthNeedsAttention = "Needs Attention"
	RiskHigh             = "High"
	RiskMedium           = "Medium"
	RiskLow              = "Low"
)

// Insight messages.
const (
	InsightEmpty         = "Add stocks to your portfolio to see AI analysis."
	InsightDiversify     = "Consider diversifying across more sectors to reduce risk."
	InsightWellDiverse   = "Portfolio shows good sectoral diversification."
	InsightConcentration = "High concentration detected in one sector. Consider rebalancing."
	InsightSmall         = "Small portfolio size may increase volatility risk."
	InsightLarge         = "Large portfolio with good diversification potential."
)

// Analysis scores how well a portfolio is spread across sectors.
type Analysis struct {
	OverallHealth        string             `json:"overall_health"`
	DiversificationScore float64            `json:"diversification_score"`
	RiskLevel            string             `json:"risk_level"`
	ConcentrationRisk    bool               `json:"concentration_risk"`
	Insights             []string           `json:"insights"`
	SectorBreakdown      map[string]float64 `json:"sector_breakdown,omitempty"`
}

// Analyze measures diversification by invested amount per sector.
func Analyze(holdings []Holding) Analysis {
	if len(holdings) == 0 {
		return Analysis{
			OverallHealth: LabelNA,
			RiskLevel:     LabelNA,
			Insights:      []string{InsightEmpty},
		}
	}

	sectors := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, h := range holdings {
		invested := decimal.NewFromFloat(h.Quantity).Mul(decimal.NewFromFloat(h.BuyPrice))
		sector := h.SectorOrDefault()
		sectors[sector] = sectors[sector].Add(invested)
		total = total.Add(invested)
	}

	score := min(float64(len(sectors))/TargetSectors*100, 100)

	concentrated := false
	if total.IsPositive() {
		limit := total.Mul(decimal.NewFromFloat(ConcentrationShare))
		for _, value := range sectors {
			if value.GreaterThan(limit) {
				concentrated = true
				break
			}
		}
	}

	insights := []string{}
	switch {
	case score < 30:
		insights = append(insights, InsightDiversify)
	case score > 70:
		insights = append(insights, InsightWellDiverse)
	}
	if concentrated {
		insights = append(insights, InsightConcentration)
	}
	switch {
	case len(holdings) < SmallPortfolio:
		insights = append(insights, InsightSmall)
	case len(holdings) > LargePortfolio:
		insights = append(insights, InsightLarge)
	}

	health := HealthNeedsAttention
	switch {
	case score > 60 && !concentrated:
		health = HealthGood
	case score > 30:
		health = HealthModerate
	}

	risk := RiskLow
	switch {
	case concentrated || score < 30:
		risk = RiskHigh
	case score < 60:
		risk = RiskMedium
	}

	breakdown := make(map[string]float64, len(sectors))
	for sector, value := range sectors {
		breakdown[sector] = cents(value)
	}

	return Analysis{
		OverallHealth:        health,
		DiversificationScore: mathutil.RoundTo(score, 1),
		RiskLevel:            risk,
		ConcentrationRisk:    concentrated,
		Insights:             insights,
		SectorBreakdown:      breakdown,
	}
}
