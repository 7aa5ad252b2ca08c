// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/investment-tracker/internal/portfolio"
)

// FindPosition finds a valued position by symbol.
// Returns a pointer to the position if found, nil otherwise.
func FindPosition(positions []portfolio.Position, symbol string) *portfolio.Position {
	for i := range positions {
		if positions[i].Symbol == symbol {
			return &positions[i]
		}
	}
	return nil
}

// FindHolding finds a stored holding by symbol.
// Returns a pointer to the holding if found, nil otherwise.
func FindHolding(holdings []portfolio.Holding, symbol string) *portfolio.Holding {
	for i := range holdings {
		if holdings[i].Symbol == symbol {
			return &holdings[i]
		}
	}
	return nil
}
