package market

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iwvelando/investment-tracker/internal/cache"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/mathutil"
	"go.uber.org/zap"
)

// DefaultPeriod is the history range used when none is requested.
const DefaultPeriod = "1mo"

// fetchConcurrency bounds simultaneous provider calls in batch lookups.
const fetchConcurrency = 8

var intervalForPeriod = map[string]string{
	"1d":  "5m",
	"5d":  "15m",
	"1mo": "1d",
	"3mo": "1d",
	"6mo": "1d",
	"1y":  "1wk",
	"2y":  "1wk",
	"5y":  "1mo",
	"max": "1mo",
}

var intradayIntervals = map[string]bool{
	"5m":  true,
	"15m": true,
	"30m": true,
	"1h":  true,
}

// IntervalFor returns the default candle interval for a history period.
func IntervalFor(period string) string {
	if interval, ok := intervalForPeriod[period]; ok {
		return interval
	}
	return "1d"
}

// ServiceOptions configures cache lifetimes. Zero values take defaults.
type ServiceOptions struct {
	PriceTTL    time.Duration
	DividendTTL time.Duration
}

// Service combines a Provider with caching and catalog fallbacks. It is safe
// for concurrent use.
type Service struct {
	logger      *zap.Logger
	provider    Provider
	catalog     *Catalog
	cache       cache.Cache
	priceTTL    time.Duration
	dividendTTL time.Duration
}

// NewService creates a Service. A nil catalog uses the built-in NSE catalog
// and a nil cache uses an in-memory one.
func NewService(logger *zap.Logger, provider Provider, catalog *Catalog, c cache.Cache, opts ServiceOptions) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if c == nil {
		c = cache.NewMemory()
	}
	if opts.PriceTTL <= 0 {
		opts.PriceTTL = constants.DefaultPriceTTL
	}
	if opts.DividendTTL <= 0 {
		opts.DividendTTL = constants.DefaultDividendTTL
	}
	return &Service{
		logger:      logger,
		provider:    provider,
		catalog:     catalog,
		cache:       c,
		priceTTL:    opts.PriceTTL,
		dividendTTL: opts.DividendTTL,
	}
}

// Catalog returns the catalog backing fallbacks and search.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// NormalizeSymbol upper-cases symbol and adds the NSE suffix when the catalog knows it.
func (s *Service) NormalizeSymbol(symbol string) string {
	return s.catalog.Normalize(symbol)
}

// Price returns the quote for a single symbol.
func (s *Service) Price(ctx context.Context, symbol string) (Quote, bool) {
	quotes := s.Prices(ctx, []string{symbol})
	q, ok := quotes[symbol]
	return q, ok
}

// Prices returns quotes for symbols from the cache or the provider, falling
// back to catalog reference prices. Symbols with no price anywhere are omitted.
func (s *Service) Prices(ctx context.Context, symbols []string) map[string]Quote {
	quotes := make(map[string]Quote, len(symbols))
	var missing []string
	seen := make(map[string]bool, len(symbols))

	for _, symbol := range symbols {
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		if q, ok := s.cachedQuote(ctx, symbol); ok {
			quotes[symbol] = q
			continue
		}
		missing = append(missing, symbol)
	}

	if len(missing) > 0 {
		fetched := s.fetchQuotes(ctx, missing)
		for _, symbol := range missing {
			if q, ok := fetched[symbol]; ok {
				quotes[symbol] = q
				s.storeQuote(ctx, q)
				continue
			}
			if entry, ok := s.catalog.Lookup(symbol); ok {
				quotes[symbol] = Quote{
					Symbol:    symbol,
					Price:     entry.Price,
					Currency:  constants.DefaultCurrency,
					Fallback:  true,
					FetchedAt: time.Now(),
				}
			}
		}
	}

	return quotes
}

func (s *Service) fetchQuotes(ctx context.Context, symbols []string) map[string]Quote {
	results := make(map[string]Quote, len(symbols))
	if s.provider == nil {
		return results
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, fetchConcurrency)
	)
	for _, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			q, err := s.provider.Quote(ctx, symbol)
			if err != nil {
				s.logger.Warn(fmt.Sprintf("error fetching price for %s: %v", symbol, err),
					zap.String("op", "market.Service.Prices"),
				)
				return
			}
			if q.Price <= 0 {
				return
			}
			q.Symbol = symbol
			mu.Lock()
			results[symbol] = q
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()
	return results
}

func priceKey(symbol string) string {
	return "price:" + symbol
}

func dividendKey(symbol string) string {
	return "dividend:" + symbol
}

func (s *Service) cachedQuote(ctx context.Context, symbol string) (Quote, bool) {
	data, ok := s.cache.Get(ctx, priceKey(symbol))
	if !ok {
		return Quote{}, false
	}
	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return Quote{}, false
	}
	return q, true
}

func (s *Service) storeQuote(ctx context.Context, q Quote) {
	data, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, priceKey(q.Symbol), data, s.priceTTL); err != nil {
		s.logger.Warn(fmt.Sprintf("error caching price for %s: %v", q.Symbol, err),
			zap.String("op", "market.Service.storeQuote"),
		)
	}
}

// Dividends returns the trailing annual dividend per share for each symbol.
// Symbols whose dividend cannot be fetched report 0.
func (s *Service) Dividends(ctx context.Context, symbols []string) map[string]float64 {
	dividends := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		if _, done := dividends[symbol]; done || symbol == "" {
			continue
		}
		if data, ok := s.cache.Get(ctx, dividendKey(symbol)); ok {
			if v, err := strconv.ParseFloat(string(data), 64); err == nil {
				dividends[symbol] = v
				continue
			}
		}

		dividends[symbol] = 0
		if s.provider == nil {
			continue
		}
		v, err := s.provider.Dividend(ctx, symbol)
		if err != nil {
			s.logger.Debug(fmt.Sprintf("no dividend data for %s: %v", symbol, err),
				zap.String("op", "market.Service.Dividends"),
			)
			continue
		}
		dividends[symbol] = v
		_ = s.cache.Set(ctx, dividendKey(symbol), []byte(strconv.FormatFloat(v, 'f', -1, 64)), s.dividendTTL)
	}
	return dividends
}

// Movers prices every catalog stock and measures its move against the catalog
// reference price.
func (s *Service) Movers(ctx context.Context) []Mover {
	entries := s.catalog.Entries()
	quotes := s.Prices(ctx, s.catalog.Symbols())

	movers := make([]Mover, 0, len(entries))
	for _, e := range entries {
		price := e.Price
		if q, ok := quotes[e.Symbol]; ok {
			price = q.Price
		}
		change := price - e.Price
		changePct := mathutil.CalculatePercentage(change, e.Price)
		movers = append(movers, Mover{
			Symbol:    e.Symbol,
			Name:      e.Name,
			Sector:    e.Sector,
			Price:     price,
			Change:    mathutil.Round(change),
			ChangePct: mathutil.Round(changePct),
		})
	}
	return movers
}

// Gainers returns the limit best movers, largest percentage gain first.
func Gainers(movers []Mover, limit int) []Mover {
	sorted := append([]Mover(nil), movers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangePct > sorted[j].ChangePct
	})
	return head(sorted, limit)
}

// Losers returns the limit worst movers, largest percentage loss first.
func Losers(movers []Mover, limit int) []Mover {
	sorted := append([]Mover(nil), movers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangePct < sorted[j].ChangePct
	})
	return head(sorted, limit)
}

func head(movers []Mover, limit int) []Mover {
	if limit >= 0 && limit < len(movers) {
		return movers[:limit]
	}
	return movers
}

// TopGainers prices the catalog and returns its best performers.
func (s *Service) TopGainers(ctx context.Context, limit int) []Mover {
	return Gainers(s.Movers(ctx), limit)
}

// TopLosers prices the catalog and returns its worst performers.
func (s *Service) TopLosers(ctx context.Context, limit int) []Mover {
	return Losers(s.Movers(ctx), limit)
}

// Detail returns the provider's view of a stock, or the catalog entry marked
// with LimitedDataMessage when the provider fails.
func (s *Service) Detail(ctx context.Context, symbol string) (Detail, error) {
	symbol = s.NormalizeSymbol(symbol)
	entry, known := s.catalog.Lookup(symbol)

	var providerErr error
	if s.provider != nil {
		d, err := s.provider.Detail(ctx, symbol)
		if err == nil {
			d.Symbol = symbol
			if d.Sector == "" {
				d.Sector = "N/A"
				if known {
					d.Sector = entry.Sector
				}
			}
			if d.Price.Current != 0 && d.Price.PreviousClose != 0 {
				change := d.Price.Current - d.Price.PreviousClose
				d.Price.Change = mathutil.Round(change)
				d.Price.ChangePercent = mathutil.Round(change / d.Price.PreviousClose * constants.PercentageMultiplier)
			}
			return d, nil
		}
		providerErr = err
		s.logger.Warn(fmt.Sprintf("error fetching stock details for %s: %v", symbol, err),
			zap.String("op", "market.Service.Detail"),
		)
	}

	if !known {
		if providerErr != nil {
			return Detail{}, fmt.Errorf("%w: %s: %v", ErrUnknownSymbol, symbol, providerErr)
		}
		return Detail{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	changePct := 0.0
	if entry.Price != 0 {
		changePct = mathutil.Round(entry.Change / entry.Price * constants.PercentageMultiplier)
	}
	return Detail{
		Symbol:   symbol,
		Name:     entry.Name,
		Sector:   entry.Sector,
		Currency: constants.DefaultCurrency,
		Price: PriceInfo{
			Current:       entry.Price,
			Change:        entry.Change,
			ChangePercent: changePct,
		},
		Error: LimitedDataMessage,
	}, nil
}

// History returns chart bars for symbol. An empty period means DefaultPeriod
// and an empty interval is derived from the period.
func (s *Service) History(ctx context.Context, symbol, period, interval string) (History, error) {
	symbol = s.NormalizeSymbol(symbol)
	if period == "" {
		period = DefaultPeriod
	}
	if interval == "" {
		interval = IntervalFor(period)
	}
	if s.provider == nil {
		return History{}, ErrNoHistory
	}

	bars, err := s.provider.History(ctx, symbol, period, interval)
	if err != nil {
		return History{}, fmt.Errorf("history for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return History{}, ErrNoHistory
	}

	layout := constants.DateLayout
	if intradayIntervals[interval] {
		layout = constants.DateLayout + " 15:04"
	}

	points := make([]HistoryPoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, HistoryPoint{
			Date:      b.Time.Format(layout),
			Timestamp: b.Time.UnixMilli(),
			Open:      mathutil.Round(b.Open),
			High:      mathutil.Round(b.High),
			Low:       mathutil.Round(b.Low),
			Close:     mathutil.Round(b.Close),
			Volume:    b.Volume,
		})
	}

	return History{
		Symbol:   symbol,
		Period:   period,
		Interval: interval,
		Data:     points,
	}, nil
}

// Search looks symbols up in the catalog.
func (s *Service) Search(query string, limit int) []SearchResult {
	return s.catalog.Search(query, limit)
}

// ClearCache drops all cached prices and dividends.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing market cache: %w", err)
	}
	s.logger.Info("market cache cleared",
		zap.String("op", "market.Service.ClearCache"),
	)
	return nil
}

// Headlines proxies the provider's news for a symbol.
func (s *Service) Headlines(ctx context.Context, symbol string, limit int) ([]Headline, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no market provider configured")
	}
	return s.provider.Headlines(ctx, strings.TrimSpace(symbol), limit)
}
