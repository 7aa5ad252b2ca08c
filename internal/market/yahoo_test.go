package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

const chartResponse = `{
  "chart": {
    "result": [{
      "meta": {
        "currency": "INR",
        "symbol": "TCS.NS",
        "exchangeName": "NSI",
        "longName": "Tata Consultancy Services Limited",
        "regularMarketPrice": 3912.456,
        "chartPreviousClose": 3890.1,
        "regularMarketDayHigh": 3925.0,
        "regularMarketDayLow": 3880.5,
        "regularMarketVolume": 1534000,
        "fiftyTwoWeekHigh": 4592.25,
        "fiftyTwoWeekLow": 3056.05,
        "gmtoffset": 19800,
        "timezone": "IST"
      },
      "timestamp": [1740973500, 1740973800],
      "events": {
        "dividends": {
          "1730000000": {"amount": 10.0, "date": 1730000000},
          "1720000000": {"amount": 18.5, "date": 1720000000}
        }
      },
      "indicators": {
        "quote": [{
          "open": [3890.0, null],
          "high": [3901.0, 3925.0],
          "low": [3885.0, 3880.5],
          "close": [3899.0, 3912.45],
          "volume": [1000, 2000]
        }]
      }
    }],
    "error": null
  }
}`

const searchResponse = `{
  "news": [
    {"title": "TCS wins deal", "link": "https://example.com/a", "publisher": "Mint", "providerPublishTime": 1740973500,
     "thumbnail": {"resolutions": [{"url": "https://example.com/a.jpg"}]}},
    {"title": "IT stocks rally", "link": "https://example.com/b", "publisher": "ET", "providerPublishTime": 1740970000},
    {"title": "Third", "link": "https://example.com/c", "publisher": "BS", "providerPublishTime": 1740960000}
  ]
}`

type requestLog struct {
	mu    sync.Mutex
	paths []string
}

func (l *requestLog) add(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, path)
}

func (l *requestLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func newTestYahoo(t *testing.T) (*YahooProvider, *requestLog) {
	t.Helper()
	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r.URL.RequestURI())
		if r.Header.Get("User-Agent") != "test-agent" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/MISSING.NS"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			_, _ = w.Write([]byte(chartResponse))
		case r.URL.Path == "/v1/finance/search":
			_, _ = w.Write([]byte(searchResponse))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return NewYahooProvider(zap.NewNop(), YahooOptions{BaseURL: srv.URL + "/", UserAgent: "test-agent"}), log
}

func TestYahooQuote(t *testing.T) {
	y, requests := newTestYahoo(t)

	q, err := y.Quote(context.Background(), "TCS.NS")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Price != 3912.46 {
		t.Errorf("Price = %v, want 3912.46", q.Price)
	}
	if q.PreviousClose != 3890.1 || q.Currency != "INR" || q.Exchange != "NSI" {
		t.Errorf("unexpected quote: %+v", q)
	}
	if paths := requests.all(); len(paths) != 1 || !strings.Contains(paths[0], "range=1d") {
		t.Errorf("unexpected request: %v", paths)
	}

	if _, err := y.Quote(context.Background(), "MISSING.NS"); err == nil {
		t.Error("expected error for a non-200 response")
	}
}

func TestYahooDetail(t *testing.T) {
	y, _ := newTestYahoo(t)

	d, err := y.Detail(context.Background(), "TCS.NS")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.Name != "Tata Consultancy Services Limited" {
		t.Errorf("Name = %s", d.Name)
	}
	if d.Price.Open != 3890 || d.Price.High != 3925 || d.Price.Low != 3880.5 {
		t.Errorf("unexpected price info: %+v", d.Price)
	}
	if d.Volume != 1534000 || d.Week52.High != 4592.25 {
		t.Errorf("unexpected volume or range: %+v", d)
	}
}

func TestYahooHistory(t *testing.T) {
	y, _ := newTestYahoo(t)

	bars, err := y.History(context.Background(), "TCS.NS", "1d", "5m")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].Time.Format("15:04") != "09:15" {
		t.Errorf("first bar time = %s, want 09:15 local", bars[0].Time.Format("15:04"))
	}
	if bars[1].Open != 0 || bars[1].Close != 3912.45 || bars[1].Volume != 2000 {
		t.Errorf("unexpected second bar: %+v", bars[1])
	}
}

func TestYahooDividend(t *testing.T) {
	y, requests := newTestYahoo(t)

	v, err := y.Dividend(context.Background(), "TCS.NS")
	if err != nil {
		t.Fatalf("Dividend: %v", err)
	}
	if v != 28.5 {
		t.Errorf("Dividend = %v, want 28.5", v)
	}
	if paths := requests.all(); !strings.Contains(paths[0], "events=div") {
		t.Errorf("dividend request missing events filter: %s", paths[0])
	}
}

func TestYahooHeadlines(t *testing.T) {
	y, _ := newTestYahoo(t)

	items, err := y.Headlines(context.Background(), "TCS.NS", 2)
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d headlines, want 2", len(items))
	}
	if items[0].Title != "TCS wins deal" || items[0].Source != "Mint" || items[0].Thumbnail != "https://example.com/a.jpg" {
		t.Errorf("unexpected first headline: %+v", items[0])
	}
	if items[1].Thumbnail != "" || items[1].Symbol != "TCS.NS" {
		t.Errorf("unexpected second headline: %+v", items[1])
	}
	if items[0].Published.Unix() != 1740973500 {
		t.Errorf("Published = %v", items[0].Published)
	}
}
