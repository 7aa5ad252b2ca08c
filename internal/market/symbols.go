package market

import (
	"errors"
	"fmt"
	"strings"
)

// Exchange suffixes for Indian listings.
const (
	SuffixNSE = ".NS"
	SuffixBSE = ".BO"
)

// ErrNotIndianSymbol is returned for symbols outside NSE and BSE.
var ErrNotIndianSymbol = errors.New("only Indian stocks are supported, use NSE (.NS) or BSE (.BO) symbols such as TCS.NS or RELIANCE.NS")

// HasIndianSuffix reports whether symbol carries an NSE or BSE suffix.
func HasIndianSuffix(symbol string) bool {
	return strings.HasSuffix(symbol, SuffixNSE) || strings.HasSuffix(symbol, SuffixBSE)
}

// ValidateIndianSymbol checks that symbol is a non-empty NSE or BSE listing.
func ValidateIndianSymbol(symbol string) error {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return fmt.Errorf("symbol is required")
	}
	if !HasIndianSuffix(s) || len(s) == len(SuffixNSE) {
		return fmt.Errorf("%s: %w", s, ErrNotIndianSymbol)
	}
	return nil
}
