// Package news aggregates headlines for portfolio holdings and the wider market.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/investment-tracker/internal/market"
	"go.uber.org/zap"
)

// Limits applied to aggregated feeds.
const (
	MaxPortfolioSymbols = 10
	PerSymbolLimit      = 3
	PortfolioLimit      = 15
	DefaultLimit        = 10
)

// MarketIndices are the symbols whose headlines make up market news.
var MarketIndices = []string{"^NSEI", "^BSESN"}

// Provider supplies headlines attached to a symbol.
type Provider interface {
	Headlines(ctx context.Context, symbol string, limit int) ([]market.Headline, error)
}

// Searcher supplies headlines matching free text.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]market.Headline, error)
}

// Service merges and deduplicates headlines from its sources.
type Service struct {
	logger   *zap.Logger
	provider Provider
	searcher Searcher
}

// NewService creates a Service. searcher may be nil, in which case Search
// returns market news.
func NewService(logger *zap.Logger, provider Provider, searcher Searcher) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, provider: provider, searcher: searcher}
}

// Portfolio returns recent headlines for up to MaxPortfolioSymbols holdings.
func (s *Service) Portfolio(ctx context.Context, symbols []string) []market.Headline {
	if len(symbols) > MaxPortfolioSymbols {
		symbols = symbols[:MaxPortfolioSymbols]
	}
	return merge(s.collect(ctx, symbols, PerSymbolLimit), PortfolioLimit)
}

// Market returns headlines for the Nifty 50 and Sensex indices.
func (s *Service) Market(ctx context.Context, limit int) []market.Headline {
	if limit <= 0 {
		limit = DefaultLimit
	}
	perIndex := limit / len(MarketIndices)
	if perIndex == 0 {
		perIndex = 1
	}
	return merge(s.collect(ctx, MarketIndices, perIndex), limit)
}

// Search looks headlines up by keyword, falling back to market news when no
// searcher is configured or the search fails.
func (s *Service) Search(ctx context.Context, query string, limit int) []market.Headline {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if s.searcher == nil || strings.TrimSpace(query) == "" {
		return s.Market(ctx, limit)
	}

	items, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("news search for %q failed, using market news: %v", query, err),
			zap.String("op", "news.Service.Search"),
		)
		return s.Market(ctx, limit)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *Service) collect(ctx context.Context, symbols []string, perSymbol int) []market.Headline {
	var all []market.Headline
	if s.provider == nil {
		return all
	}
	for _, symbol := range symbols {
		items, err := s.provider.Headlines(ctx, symbol, perSymbol)
		if err != nil {
			s.logger.Warn(fmt.Sprintf("error fetching news for %s: %v", symbol, err),
				zap.String("op", "news.Service.collect"),
			)
			continue
		}
		if len(items) > perSymbol {
			items = items[:perSymbol]
		}
		all = append(all, items...)
	}
	return all
}

// merge orders headlines newest first, drops repeated titles ignoring case
// and keeps at most limit items.
func merge(items []market.Headline, limit int) []market.Headline {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})

	seen := make(map[string]bool, len(items))
	unique := make([]market.Headline, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
		if len(unique) == limit {
			break
		}
	}
	return unique
}
