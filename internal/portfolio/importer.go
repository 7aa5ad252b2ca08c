package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/investment-tracker/pkg/datetime"
)

// ImportResult reports the holdings parsed from a bulk import.
type ImportResult struct {
	Holdings []Holding `json:"holdings"`
	Skipped  int       `json:"skipped"`
}

// ParseBatch reads one holding per line in either of two forms:
//
//	SYMBOL,quantity,price,date
//	SYMBOL,company,quantity,price,date[,sector]
//
// The company form applies when a line has more than four fields. Blank lines
// are ignored; malformed or invalid lines are skipped and counted. An empty
// date means today.
func ParseBatch(text string, today time.Time) ImportResult {
	result := ImportResult{Holdings: []Holding{}}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		h, err := parseBatchLine(line, today)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Holdings = append(result.Holdings, h)
	}

	return result
}

func parseBatchLine(line string, today time.Time) (Holding, error) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 4 {
		return Holding{}, fmt.Errorf("expected at least 4 fields, got %d", len(parts))
	}

	h := Holding{Symbol: strings.ToUpper(parts[0])}
	qtyField, priceField, dateField := parts[1], parts[2], parts[3]
	if len(parts) > 4 {
		h.CompanyName = parts[1]
		qtyField, priceField, dateField = parts[2], parts[3], parts[4]
	}
	if len(parts) > 5 {
		h.Sector = parts[5]
	}

	var err error
	if h.Quantity, err = strconv.ParseFloat(qtyField, 64); err != nil {
		return Holding{}, fmt.Errorf("quantity %q: %w", qtyField, err)
	}
	if h.BuyPrice, err = strconv.ParseFloat(priceField, 64); err != nil {
		return Holding{}, fmt.Errorf("price %q: %w", priceField, err)
	}
	if h.BuyDate, err = datetime.ParseDateOr(dateField, today); err != nil {
		return Holding{}, err
	}

	return h, ValidateHolding(h)
}

// Column aliases accepted by ParseCSV, in lookup order.
var (
	symbolColumns   = []string{"symbol", "Symbol"}
	companyColumns  = []string{"company_name", "Company"}
	quantityColumns = []string{"quantity", "Quantity"}
	priceColumns    = []string{"buy_price", "Price", "Buy Price"}
	dateColumns     = []string{"buy_date", "Date", "Buy Date"}
	sectorColumns   = []string{"sector", "Sector"}
)

// ErrEmptyCSV is returned when the CSV has no header row.
var ErrEmptyCSV = errors.New("csv file is empty")

// ParseCSV reads holdings from a CSV document with a header row. Rows that
// cannot be parsed or fail validation are skipped and counted. A missing date
// means today.
func ParseCSV(r io.Reader, today time.Time) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ImportResult{}, ErrEmptyCSV
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	result := ImportResult{Holdings: []Holding{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("reading csv: %w", err)
		}

		field := func(aliases []string) string {
			for _, alias := range aliases {
				if i, ok := columns[alias]; ok && i < len(record) {
					return strings.TrimSpace(record[i])
				}
			}
			return ""
		}

		h, err := parseCSVRow(field, today)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Holdings = append(result.Holdings, h)
	}

	return result, nil
}

func parseCSVRow(field func([]string) string, today time.Time) (Holding, error) {
	h := Holding{
		Symbol:      strings.ToUpper(field(symbolColumns)),
		CompanyName: field(companyColumns),
		Sector:      field(sectorColumns),
	}

	var err error
	if h.Quantity, err = parseNumber(field(quantityColumns)); err != nil {
		return Holding{}, fmt.Errorf("quantity: %w", err)
	}
	if h.BuyPrice, err = parseNumber(field(priceColumns)); err != nil {
		return Holding{}, fmt.Errorf("price: %w", err)
	}
	if h.BuyDate, err = datetime.ParseDateOr(field(dateColumns), today); err != nil {
		return Holding{}, err
	}

	return h, ValidateHolding(h)
}

func parseNumber(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
