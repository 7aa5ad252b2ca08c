package portfolio

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var today = time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)

func TestParseBatch(t *testing.T) {
	text := strings.Join([]string{
		"tcs.ns, 10, 3500, 2024-01-15",
		"INFY.NS,Infosys Ltd,5,1450.5,2024-02-01,Technology",
		"",
		"WIPRO.NS,Wipro,3,420,2024-03-01",
		"BAD LINE",
		"ITC.NS,abc,400,2024-01-01",
		"SBIN.NS,2,700,not-a-date",
		"HDFCBANK.NS,0,1600,2024-01-01",
		"LT.NS,1,3400,",
	}, "\n")

	result := ParseBatch(text, today)

	if result.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4", result.Skipped)
	}
	if len(result.Holdings) != 4 {
		t.Fatalf("parsed %d holdings, want 4: %+v", len(result.Holdings), result.Holdings)
	}

	tcs := result.Holdings[0]
	if tcs.Symbol != "TCS.NS" || tcs.Quantity != 10 || tcs.BuyPrice != 3500 || tcs.CompanyName != "" {
		t.Errorf("unexpected short-form holding: %+v", tcs)
	}
	if !tcs.BuyDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("BuyDate = %v", tcs.BuyDate)
	}

	infy := result.Holdings[1]
	if infy.CompanyName != "Infosys Ltd" || infy.Quantity != 5 || infy.BuyPrice != 1450.5 || infy.Sector != "Technology" {
		t.Errorf("unexpected company-form holding: %+v", infy)
	}

	wipro := result.Holdings[2]
	if wipro.CompanyName != "Wipro" || wipro.Sector != "" {
		t.Errorf("unexpected five-field holding: %+v", wipro)
	}

	if !result.Holdings[3].BuyDate.Equal(today) {
		t.Errorf("blank date should default to today, got %v", result.Holdings[3].BuyDate)
	}
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		skipped int
		check   func(t *testing.T, h []Holding)
	}{
		{
			name:  "canonical headers",
			input: "symbol,company_name,quantity,buy_price,buy_date,sector\nreliance.ns,Reliance,4,2400,2024-06-01,Energy\n",
			count: 1,
			check: func(t *testing.T, h []Holding) {
				if h[0].Symbol != "RELIANCE.NS" || h[0].CompanyName != "Reliance" || h[0].Sector != "Energy" || h[0].Quantity != 4 {
					t.Errorf("unexpected holding: %+v", h[0])
				}
			},
		},
		{
			name:  "alias headers with missing date",
			input: "\ufeffSymbol,Company,Quantity,Buy Price,Sector\nTCS.NS,TCS,2,3900,Technology\n",
			count: 1,
			check: func(t *testing.T, h []Holding) {
				if h[0].BuyPrice != 3900 || !h[0].BuyDate.Equal(today) {
					t.Errorf("unexpected holding: %+v", h[0])
				}
			},
		},
		{
			name:  "price and date aliases",
			input: "Symbol,Quantity,Price,Date\nITC.NS,100,450,2023-12-31\n",
			count: 1,
			check: func(t *testing.T, h []Holding) {
				if h[0].BuyPrice != 450 || h[0].BuyDate.Year() != 2023 {
					t.Errorf("unexpected holding: %+v", h[0])
				}
			},
		},
		{
			name:    "invalid rows skipped",
			input:   "symbol,quantity,buy_price,buy_date\nA.NS,x,1,2024-01-01\nB.NS,1,1,01/02/2024\n,1,1,2024-01-01\nC.NS,1,5,2024-01-01\nD.NS,1\n",
			count:   1,
			skipped: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseCSV(strings.NewReader(tt.input), today)
			if err != nil {
				t.Fatalf("ParseCSV: %v", err)
			}
			if len(result.Holdings) != tt.count || result.Skipped != tt.skipped {
				t.Fatalf("got %d holdings and %d skipped, want %d and %d", len(result.Holdings), result.Skipped, tt.count, tt.skipped)
			}
			if tt.check != nil {
				tt.check(t, result.Holdings)
			}
		})
	}
}

func TestParseCSVEmpty(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader(""), today); !errors.Is(err, ErrEmptyCSV) {
		t.Errorf("expected ErrEmptyCSV, got %v", err)
	}
}
