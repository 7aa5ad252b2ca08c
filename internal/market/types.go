// Package market provides stock quotes, details, price history and dividend
// data backed by a remote provider, a TTL cache and the built-in NSE catalog.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrUnknownSymbol is returned when neither the provider nor the catalog knows a symbol.
var ErrUnknownSymbol = errors.New("stock not found")

// ErrNoHistory is returned when a provider has no bars for the requested range.
var ErrNoHistory = errors.New("no historical data available")

// LimitedDataMessage marks details served from the catalog.
const LimitedDataMessage = "Limited data available"

// Provider is a remote source of market data.
type Provider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
	Detail(ctx context.Context, symbol string) (Detail, error)
	History(ctx context.Context, symbol, period, interval string) ([]Bar, error)
	// Dividend returns the dividend per share paid over the trailing twelve months.
	Dividend(ctx context.Context, symbol string) (float64, error)
	Headlines(ctx context.Context, symbol string, limit int) ([]Headline, error)
}

// Quote is the latest known price of a symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Currency      string    `json:"currency"`
	Exchange      string    `json:"exchange"`
	Fallback      bool      `json:"fallback,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// PriceInfo groups the intraday price fields of a Detail.
type PriceInfo struct {
	Current       float64 `json:"current"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PreviousClose float64 `json:"previous_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// RangeInfo is a 52-week trading range.
type RangeInfo struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// Detail is the extended view of a single stock.
type Detail struct {
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	Sector   string    `json:"sector"`
	Currency string    `json:"currency,omitempty"`
	Exchange string    `json:"exchange,omitempty"`
	Price    PriceInfo `json:"price"`
	Volume   int64     `json:"volume"`
	Week52   RangeInfo `json:"week_52"`
	Error    string    `json:"error,omitempty"`
}

// Bar is one OHLCV candle.
type Bar struct {
	Time   time.Time `json:"-"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoryPoint is a Bar formatted for charting.
type HistoryPoint struct {
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// History is the chart series for a symbol.
type History struct {
	Symbol   string         `json:"symbol"`
	Period   string         `json:"period"`
	Interval string         `json:"interval"`
	Data     []HistoryPoint `json:"data"`
}

// Headline is a news item attached to a symbol.
type Headline struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
}

// Headline timestamp layouts.
const (
	PublishedLayout        = "2006-01-02 15:04"
	PublishedDisplayLayout = "02 Jan, 03:04 PM"
)

// MarshalJSON renders Published in both machine and display forms.
func (h Headline) MarshalJSON() ([]byte, error) {
	out := struct {
		Title            string `json:"title"`
		Link             string `json:"link"`
		Source           string `json:"source"`
		Published        string `json:"published"`
		PublishedDisplay string `json:"published_display"`
		Thumbnail        string `json:"thumbnail,omitempty"`
		Symbol           string `json:"symbol,omitempty"`
	}{
		Title:     h.Title,
		Link:      h.Link,
		Source:    h.Source,
		Thumbnail: h.Thumbnail,
		Symbol:    h.Symbol,
	}
	if !h.Published.IsZero() {
		out.Published = h.Published.Format(PublishedLayout)
		out.PublishedDisplay = h.Published.Format(PublishedDisplayLayout)
	}
	return json.Marshal(out)
}

// Mover is a catalog stock ranked by its move against the catalog reference price.
type Mover struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}
