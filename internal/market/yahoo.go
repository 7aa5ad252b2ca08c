package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/mathutil"
	"go.uber.org/zap"
)

// YahooProvider reads the public chart and search endpoints.
type YahooProvider struct {
	logger    *zap.Logger
	client    *http.Client
	baseURL   string
	userAgent string
}

// YahooOptions configures a YahooProvider. Zero values take defaults.
type YahooOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// NewYahooProvider creates a provider for the given options.
func NewYahooProvider(logger *zap.Logger, opts YahooOptions) *YahooProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = constants.DefaultMarketBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultHTTPTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constants.DefaultUserAgent
	}
	return &YahooProvider{
		logger:    logger,
		client:    &http.Client{Timeout: opts.Timeout},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
	}
}

// Quote returns the regular market price from the chart metadata.
func (y *YahooProvider) Quote(ctx context.Context, symbol string) (Quote, error) {
	doc, err := y.chart(ctx, symbol, url.Values{"range": {"1d"}, "interval": {"1d"}})
	if err != nil {
		return Quote{}, err
	}

	price, err := lookupFloat("$.chart.result[0].meta.regularMarketPrice", doc)
	if err != nil || price <= 0 {
		price, err = lookupFloat("$.chart.result[0].meta.previousClose", doc)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("no price for %s: %w", symbol, err)
	}
	if price <= 0 {
		return Quote{}, fmt.Errorf("no price for %s", symbol)
	}

	return Quote{
		Symbol:        symbol,
		Price:         mathutil.Round(price),
		PreviousClose: lookupFloatOr("$.chart.result[0].meta.chartPreviousClose", doc, 0),
		Currency:      lookupStringOr("$.chart.result[0].meta.currency", doc, constants.DefaultCurrency),
		Exchange:      lookupStringOr("$.chart.result[0].meta.exchangeName", doc, ""),
		FetchedAt:     time.Now(),
	}, nil
}

// Detail assembles the extended stock view from the chart metadata.
func (y *YahooProvider) Detail(ctx context.Context, symbol string) (Detail, error) {
	doc, err := y.chart(ctx, symbol, url.Values{"range": {"1d"}, "interval": {"1d"}})
	if err != nil {
		return Detail{}, err
	}

	current, err := lookupFloat("$.chart.result[0].meta.regularMarketPrice", doc)
	if err != nil {
		return Detail{}, fmt.Errorf("no price for %s: %w", symbol, err)
	}

	name := lookupStringOr("$.chart.result[0].meta.longName", doc, "")
	if name == "" {
		name = lookupStringOr("$.chart.result[0].meta.shortName", doc, symbol)
	}

	return Detail{
		Symbol:   symbol,
		Name:     name,
		Currency: lookupStringOr("$.chart.result[0].meta.currency", doc, constants.DefaultCurrency),
		Exchange: lookupStringOr("$.chart.result[0].meta.exchangeName", doc, ""),
		Price: PriceInfo{
			Current:       current,
			Open:          firstNonZero(lookupList("$.chart.result[0].indicators.quote[0].open", doc)),
			High:          lookupFloatOr("$.chart.result[0].meta.regularMarketDayHigh", doc, 0),
			Low:           lookupFloatOr("$.chart.result[0].meta.regularMarketDayLow", doc, 0),
			PreviousClose: lookupFloatOr("$.chart.result[0].meta.chartPreviousClose", doc, 0),
		},
		Volume: int64(lookupFloatOr("$.chart.result[0].meta.regularMarketVolume", doc, 0)),
		Week52: RangeInfo{
			High: lookupFloatOr("$.chart.result[0].meta.fiftyTwoWeekHigh", doc, 0),
			Low:  lookupFloatOr("$.chart.result[0].meta.fiftyTwoWeekLow", doc, 0),
		},
	}, nil
}

// History returns the candles for period at interval in the exchange's local time.
func (y *YahooProvider) History(ctx context.Context, symbol, period, interval string) ([]Bar, error) {
	doc, err := y.chart(ctx, symbol, url.Values{"range": {period}, "interval": {interval}})
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if offset, err := lookupFloat("$.chart.result[0].meta.gmtoffset", doc); err == nil {
		loc = time.FixedZone(lookupStringOr("$.chart.result[0].meta.timezone", doc, ""), int(offset))
	}

	stamps := lookupList("$.chart.result[0].timestamp", doc)
	opens := lookupList("$.chart.result[0].indicators.quote[0].open", doc)
	highs := lookupList("$.chart.result[0].indicators.quote[0].high", doc)
	lows := lookupList("$.chart.result[0].indicators.quote[0].low", doc)
	closes := lookupList("$.chart.result[0].indicators.quote[0].close", doc)
	volumes := lookupList("$.chart.result[0].indicators.quote[0].volume", doc)

	bars := make([]Bar, 0, len(stamps))
	for i, ts := range stamps {
		sec, ok := ts.(float64)
		if !ok {
			continue
		}
		bars = append(bars, Bar{
			Time:   time.Unix(int64(sec), 0).In(loc),
			Open:   floatAt(opens, i),
			High:   floatAt(highs, i),
			Low:    floatAt(lows, i),
			Close:  floatAt(closes, i),
			Volume: int64(floatAt(volumes, i)),
		})
	}
	return bars, nil
}

// Dividend sums the dividend events of the last year.
func (y *YahooProvider) Dividend(ctx context.Context, symbol string) (float64, error) {
	doc, err := y.chart(ctx, symbol, url.Values{"range": {"1y"}, "interval": {"1d"}, "events": {"div"}})
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, amount := range lookupList("$.chart.result[0].events.dividends[*].amount", doc) {
		if v, ok := amount.(float64); ok {
			total += v
		}
	}
	return total, nil
}

// Headlines returns recent news attached to symbol.
func (y *YahooProvider) Headlines(ctx context.Context, symbol string, limit int) ([]Headline, error) {
	q := url.Values{
		"q":           {symbol},
		"quotesCount": {"0"},
		"newsCount":   {fmt.Sprintf("%d", limit)},
	}
	var doc any
	if err := y.get(ctx, "/v1/finance/search", q, &doc); err != nil {
		return nil, err
	}

	items := lookupList("$.news", doc)
	headlines := make([]Headline, 0, len(items))
	for _, item := range items {
		if len(headlines) == limit {
			break
		}
		headlines = append(headlines, Headline{
			Title:     lookupStringOr("$.title", item, ""),
			Link:      lookupStringOr("$.link", item, ""),
			Source:    lookupStringOr("$.publisher", item, "Unknown"),
			Published: time.Unix(int64(lookupFloatOr("$.providerPublishTime", item, 0)), 0).UTC(),
			Thumbnail: lookupStringOr("$.thumbnail.resolutions[0].url", item, ""),
			Symbol:    symbol,
		})
	}
	return headlines, nil
}

func (y *YahooProvider) chart(ctx context.Context, symbol string, q url.Values) (any, error) {
	var doc any
	if err := y.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), q, &doc); err != nil {
		return nil, err
	}
	if msg := lookupStringOr("$.chart.error.description", doc, ""); msg != "" {
		return nil, fmt.Errorf("chart %s: %s", symbol, msg)
	}
	return doc, nil
}

func (y *YahooProvider) get(ctx context.Context, path string, q url.Values, data any) error {
	addr := y.baseURL + path
	if len(q) > 0 {
		addr += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", y.userAgent)
	req.Header.Set("Accept", "application/json")

	y.logger.Debug(fmt.Sprintf("GET %s", path),
		zap.String("op", "market.YahooProvider.get"),
	)

	resp, err := y.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// lookup evaluates path against doc. jsonpath returns either a single value
// or a list depending on the selector, so single-value callers unwrap lists.
func lookup(path string, doc any) (any, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, err
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, fmt.Errorf("%s: no match", path)
		}
		return list[0], nil
	}
	return v, nil
}

func lookupFloat(path string, doc any) (float64, error) {
	v, err := lookup(path, doc)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: not a number: %v", path, v)
	}
	return f, nil
}

func lookupFloatOr(path string, doc any, fallback float64) float64 {
	f, err := lookupFloat(path, doc)
	if err != nil {
		return fallback
	}
	return f
}

func lookupStringOr(path string, doc any, fallback string) string {
	v, err := lookup(path, doc)
	if err != nil {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

func lookupList(path string, doc any) []any {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil
	}
	list, _ := v.([]any)
	return list
}

func floatAt(list []any, i int) float64 {
	if i >= len(list) {
		return 0
	}
	f, _ := list[i].(float64)
	return f
}

func firstNonZero(list []any) float64 {
	for _, v := range list {
		if f, ok := v.(float64); ok && f != 0 {
			return f
		}
	}
	return 0
}
