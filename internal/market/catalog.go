package market

import (
	"sort"
	"strings"
)

// CatalogEntry is a well-known NSE listing with a reference price used when
// live quotes are unavailable.
type CatalogEntry struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Sector string  `json:"sector"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

// SearchResult is a catalog match returned to autocomplete clients.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// DefaultSearchLimit caps catalog search results.
const DefaultSearchLimit = 15

// Catalog is an ordered, read-only symbol table.
type Catalog struct {
	entries []CatalogEntry
	index   map[string]int
}

// NewCatalog builds a catalog from entries, keeping their order.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		entries: append([]CatalogEntry(nil), entries...),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range c.entries {
		c.index[e.Symbol] = i
	}
	return c
}

// DefaultCatalog returns the built-in NSE catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(nseStocks)
}

// Lookup returns the entry for an exact symbol.
func (c *Catalog) Lookup(symbol string) (CatalogEntry, bool) {
	i, ok := c.index[symbol]
	if !ok {
		return CatalogEntry{}, false
	}
	return c.entries[i], true
}

// Entries returns the catalog in its defined order.
func (c *Catalog) Entries() []CatalogEntry {
	return append([]CatalogEntry(nil), c.entries...)
}

// Symbols returns every catalog symbol in order.
func (c *Catalog) Symbols() []string {
	symbols := make([]string, len(c.entries))
	for i, e := range c.entries {
		symbols[i] = e.Symbol
	}
	return symbols
}

// Search matches query case-insensitively against symbols and names.
func (c *Catalog) Search(query string, limit int) []SearchResult {
	q := strings.ToUpper(strings.TrimSpace(query))
	results := []SearchResult{}
	if q == "" {
		return results
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	for _, e := range c.entries {
		if strings.Contains(strings.ToUpper(e.Symbol), q) || strings.Contains(strings.ToUpper(e.Name), q) {
			results = append(results, SearchResult{Symbol: e.Symbol, Name: e.Name, Sector: e.Sector})
			if len(results) == limit {
				break
			}
		}
	}
	return results
}

// SectorDistribution counts catalog listings per sector.
func (c *Catalog) SectorDistribution() map[string]int {
	sectors := make(map[string]int)
	for _, e := range c.entries {
		sectors[e.Sector]++
	}
	return sectors
}

// Sectors returns the distinct sectors in alphabetical order.
func (c *Catalog) Sectors() []string {
	dist := c.SectorDistribution()
	sectors := make([]string, 0, len(dist))
	for s := range dist {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)
	return sectors
}

// Normalize upper-cases and trims symbol, appending the NSE suffix to bare
// symbols the catalog knows.
func (c *Catalog) Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" || HasIndianSuffix(s) {
		return s
	}
	if _, ok := c.index[s+SuffixNSE]; ok {
		return s + SuffixNSE
	}
	return s
}

var nseStocks = []CatalogEntry{
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services", Sector: "Technology", Price: 3850.00, Change: 22.30},
	{Symbol: "INFY.NS", Name: "Infosys Ltd", Sector: "Technology", Price: 1580.00, Change: -8.20},
	{Symbol: "WIPRO.NS", Name: "Wipro Ltd", Sector: "Technology", Price: 485.00, Change: -3.20},
	{Symbol: "HCLTECH.NS", Name: "HCL Technologies", Sector: "Technology", Price: 1650.00, Change: 12.50},
	{Symbol: "TECHM.NS", Name: "Tech Mahindra", Sector: "Technology", Price: 1280.00, Change: 8.40},
	{Symbol: "LTIM.NS", Name: "LTIMindtree Ltd", Sector: "Technology", Price: 5200.00, Change: 35.00},

	{Symbol: "HDFCBANK.NS", Name: "HDFC Bank Ltd", Sector: "Financial Services", Price: 1680.00, Change: 12.40},
	{Symbol: "ICICIBANK.NS", Name: "ICICI Bank Ltd", Sector: "Financial Services", Price: 1120.00, Change: 8.60},
	{Symbol: "SBIN.NS", Name: "State Bank of India", Sector: "Financial Services", Price: 780.00, Change: 5.80},
	{Symbol: "KOTAKBANK.NS", Name: "Kotak Mahindra Bank", Sector: "Financial Services", Price: 1850.00, Change: -5.20},
	{Symbol: "AXISBANK.NS", Name: "Axis Bank Ltd", Sector: "Financial Services", Price: 1150.00, Change: 7.30},
	{Symbol: "BAJFINANCE.NS", Name: "Bajaj Finance Ltd", Sector: "Financial Services", Price: 6850.00, Change: 45.00},

	{Symbol: "RELIANCE.NS", Name: "Reliance Industries", Sector: "Energy", Price: 2450.00, Change: 15.50},
	{Symbol: "ONGC.NS", Name: "Oil & Natural Gas Corp", Sector: "Energy", Price: 285.00, Change: 3.20},
	{Symbol: "BPCL.NS", Name: "Bharat Petroleum", Sector: "Energy", Price: 620.00, Change: 8.50},
	{Symbol: "IOC.NS", Name: "Indian Oil Corporation", Sector: "Energy", Price: 168.00, Change: 2.10},
	{Symbol: "POWERGRID.NS", Name: "Power Grid Corp", Sector: "Energy", Price: 310.00, Change: 4.50},

	{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever", Sector: "Consumer Defensive", Price: 2580.00, Change: -12.50},
	{Symbol: "ITC.NS", Name: "ITC Ltd", Sector: "Consumer Defensive", Price: 465.00, Change: 2.80},
	{Symbol: "NESTLEIND.NS", Name: "Nestle India", Sector: "Consumer Defensive", Price: 2450.00, Change: 18.00},
	{Symbol: "BRITANNIA.NS", Name: "Britannia Industries", Sector: "Consumer Defensive", Price: 5100.00, Change: 25.00},
	{Symbol: "DABUR.NS", Name: "Dabur India Ltd", Sector: "Consumer Defensive", Price: 565.00, Change: 3.20},

	{Symbol: "SUNPHARMA.NS", Name: "Sun Pharmaceutical", Sector: "Healthcare", Price: 1480.00, Change: 12.30},
	{Symbol: "DRREDDY.NS", Name: "Dr. Reddys Laboratories", Sector: "Healthcare", Price: 6200.00, Change: -28.00},
	{Symbol: "CIPLA.NS", Name: "Cipla Ltd", Sector: "Healthcare", Price: 1520.00, Change: 8.50},
	{Symbol: "APOLLOHOSP.NS", Name: "Apollo Hospitals", Sector: "Healthcare", Price: 6800.00, Change: 45.00},

	{Symbol: "TATAPOWER.NS", Name: "Tata Power Ltd", Sector: "Energy", Price: 420.00, Change: 8.50},
	{Symbol: "MARUTI.NS", Name: "Maruti Suzuki India", Sector: "Automobiles", Price: 11500.00, Change: 85.00},
	{Symbol: "M&M.NS", Name: "Mahindra & Mahindra", Sector: "Automobiles", Price: 2850.00, Change: 22.00},
	{Symbol: "BAJAJ-AUTO.NS", Name: "Bajaj Auto Ltd", Sector: "Automobiles", Price: 8500.00, Change: -35.00},

	{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel Ltd", Sector: "Communication Services", Price: 1420.00, Change: 18.90},

	{Symbol: "TATASTEEL.NS", Name: "Tata Steel Ltd", Sector: "Metals", Price: 165.00, Change: 2.80},
	{Symbol: "HINDALCO.NS", Name: "Hindalco Industries", Sector: "Metals", Price: 620.00, Change: 8.50},
	{Symbol: "JSWSTEEL.NS", Name: "JSW Steel Ltd", Sector: "Metals", Price: 920.00, Change: 12.00},

	{Symbol: "LT.NS", Name: "Larsen & Toubro", Sector: "Infrastructure", Price: 3550.00, Change: 28.00},
	{Symbol: "ULTRACEMCO.NS", Name: "UltraTech Cement", Sector: "Infrastructure", Price: 11200.00, Change: 65.00},

	{Symbol: "ADANIENT.NS", Name: "Adani Enterprises", Sector: "Conglomerates", Price: 2850.00, Change: -25.00},
	{Symbol: "ADANIPORTS.NS", Name: "Adani Ports & SEZ", Sector: "Infrastructure", Price: 1380.00, Change: 18.50},
}
