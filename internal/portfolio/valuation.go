package portfolio

import (
	"github.com/iwvelando/investment-tracker/internal/market"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/format"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Position is a holding priced at the current quote.
type Position struct {
	ID               int64   `json:"id"`
	Symbol           string  `json:"symbol"`
	CompanyName      string  `json:"company_name"`
	Quantity         float64 `json:"quantity"`
	BuyPrice         float64 `json:"buy_price"`
	BuyDate          string  `json:"buy_date"`
	Sector           string  `json:"sector"`
	CurrentPrice     float64 `json:"current_price"`
	CurrentValue     float64 `json:"current_value"`
	Invested         float64 `json:"invested"`
	GainLoss         float64 `json:"gain_loss"`
	GainLossPct      float64 `json:"gain_loss_pct"`
	DividendPerShare float64 `json:"dividend_per_share"`
	DividendEarned   float64 `json:"dividend_earned"`
	Currency         string  `json:"currency"`
	CurrencyCode     string  `json:"currency_code"`
	Market           string  `json:"market"`
	LivePrice        bool    `json:"live_price"`
}

// Valuation is the whole portfolio priced at current quotes.
type Valuation struct {
	Holdings         []Position         `json:"holdings"`
	TotalInvested    float64            `json:"total_invested"`
	TotalCurrent     float64            `json:"total_current"`
	TotalGainLoss    float64            `json:"total_gain_loss"`
	TotalGainLossPct float64            `json:"total_gain_loss_pct"`
	TotalDividend    float64            `json:"total_dividend"`
	SectorData       map[string]float64 `json:"sector_data"`
}

// Value prices every holding. Holdings without a quote are valued at their buy
// price and holdings without a dividend entry earn nothing.
func Value(holdings []Holding, quotes map[string]market.Quote, dividends map[string]float64) Valuation {
	v := Valuation{
		Holdings:   make([]Position, 0, len(holdings)),
		SectorData: make(map[string]float64),
	}

	totalInvested := decimal.Zero
	totalCurrent := decimal.Zero
	totalDividend := decimal.Zero
	sectors := make(map[string]decimal.Decimal)

	for _, h := range holdings {
		qty := decimal.NewFromFloat(h.Quantity)
		buy := decimal.NewFromFloat(h.BuyPrice)

		price := buy
		code := constants.DefaultCurrency
		quote, live := quotes[h.Symbol]
		if live && quote.Price > 0 {
			price = decimal.NewFromFloat(quote.Price)
			if quote.Currency != "" {
				code = quote.Currency
			}
		} else {
			live = false
		}

		invested := qty.Mul(buy)
		current := qty.Mul(price)
		gain := current.Sub(invested)
		gainPct := decimal.Zero
		if buy.IsPositive() {
			gainPct = price.Sub(buy).Div(buy).Mul(hundred)
		}
		dps := decimal.NewFromFloat(dividends[h.Symbol])
		earned := qty.Mul(dps)

		totalInvested = totalInvested.Add(invested)
		totalCurrent = totalCurrent.Add(current)
		totalDividend = totalDividend.Add(earned)
		sector := h.SectorOrDefault()
		sectors[sector] = sectors[sector].Add(current)

		buyDate := ""
		if !h.BuyDate.IsZero() {
			buyDate = h.BuyDate.Format(constants.DateLayout)
		}

		v.Holdings = append(v.Holdings, Position{
			ID:               h.ID,
			Symbol:           h.Symbol,
			CompanyName:      h.CompanyName,
			Quantity:         h.Quantity,
			BuyPrice:         h.BuyPrice,
			BuyDate:          buyDate,
			Sector:           h.Sector,
			CurrentPrice:     cents(price),
			CurrentValue:     cents(current),
			Invested:         cents(invested),
			GainLoss:         cents(gain),
			GainLossPct:      cents(gainPct),
			DividendPerShare: cents(dps),
			DividendEarned:   cents(earned),
			Currency:         format.Symbol(code),
			CurrencyCode:     code,
			Market:           marketFor(code),
			LivePrice:        live,
		})
	}

	gain := totalCurrent.Sub(totalInvested)
	v.TotalInvested = cents(totalInvested)
	v.TotalCurrent = cents(totalCurrent)
	v.TotalGainLoss = cents(gain)
	if totalInvested.IsPositive() {
		v.TotalGainLossPct = cents(gain.Div(totalInvested).Mul(hundred))
	}
	v.TotalDividend = cents(totalDividend)
	for sector, value := range sectors {
		v.SectorData[sector] = cents(value)
	}

	return v
}

// Symbols lists the distinct symbols of holdings in first-seen order.
func Symbols(holdings []Holding) []string {
	seen := make(map[string]bool, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if seen[h.Symbol] {
			continue
		}
		seen[h.Symbol] = true
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}

// Summary is the dashboard view of a valuation.
type Summary struct {
	TotalInvested    float64            `json:"total_invested"`
	CurrentValue     float64            `json:"current_value"`
	TotalGainLoss    float64            `json:"total_gain_loss"`
	TotalGainLossPct float64            `json:"total_gain_loss_pct"`
	HoldingsCount    int                `json:"holdings_count"`
	Sectors          map[string]float64 `json:"sectors"`
}

// Summarize reduces a valuation to dashboard totals.
func Summarize(v Valuation) Summary {
	sectors := make(map[string]float64, len(v.SectorData))
	for k, val := range v.SectorData {
		sectors[k] = val
	}
	return Summary{
		TotalInvested:    v.TotalInvested,
		CurrentValue:     v.TotalCurrent,
		TotalGainLoss:    v.TotalGainLoss,
		TotalGainLossPct: v.TotalGainLossPct,
		HoldingsCount:    len(v.Holdings),
		Sectors:          sectors,
	}
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func marketFor(code string) string {
	if code == constants.DefaultCurrency {
		return constants.DefaultMarket
	}
	return code[:min(2, len(code))]
}
