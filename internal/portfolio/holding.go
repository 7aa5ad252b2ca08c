// Package portfolio values stock holdings against market quotes, analyses
// their sector diversification and parses bulk imports.
package portfolio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/mathutil"
)

// DefaultSector groups holdings without a sector.
const DefaultSector = "Other"

// Holding is a position bought at a single price on a single date.
type Holding struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Quantity    float64   `json:"quantity"`
	BuyPrice    float64   `json:"buy_price"`
	BuyDate     time.Time `json:"buy_date"`
	Sector      string    `json:"sector"`
	CreatedAt   time.Time `json:"created_at"`
}

// SectorOrDefault returns the holding's sector, or DefaultSector when blank.
func (h Holding) SectorOrDefault() string {
	if s := strings.TrimSpace(h.Sector); s != "" {
		return s
	}
	return DefaultSector
}

// Validation errors returned by ValidateHolding.
var (
	ErrSymbolRequired  = errors.New("symbol is required")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("buy price must be greater than zero")
)

// ValidateHolding checks the fields every stored holding must satisfy.
func ValidateHolding(h Holding) error {
	if strings.TrimSpace(h.Symbol) == "" {
		return ErrSymbolRequired
	}
	if !mathutil.IsFinite(h.Quantity) || h.Quantity <= 0 {
		return fmt.Errorf("%s: %w", h.Symbol, ErrInvalidQuantity)
	}
	if !mathutil.IsFinite(h.BuyPrice) || h.BuyPrice <= 0 {
		return fmt.Errorf("%s: %w", h.Symbol, ErrInvalidPrice)
	}
	return nil
}
