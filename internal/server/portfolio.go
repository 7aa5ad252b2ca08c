package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iwvelando/investment-tracker/internal/market"
	"github.com/iwvelando/investment-tracker/internal/portfolio"
	"github.com/iwvelando/investment-tracker/pkg/datetime"
	"go.uber.org/zap"
)

// MaxSymbolLength bounds stored symbols.
const MaxSymbolLength = 20

// valuation prices every stored holding. Without a market service holdings
// are valued at their buy price.
func (h *handler) valuation(ctx context.Context) (portfolio.Valuation, []portfolio.Holding, error) {
	holdings, err := h.store.ListHoldings(ctx)
	if err != nil {
		return portfolio.Valuation{}, nil, err
	}

	quotes := map[string]market.Quote{}
	dividends := map[string]float64{}
	if h.market != nil && len(holdings) > 0 {
		symbols := portfolio.Symbols(holdings)
		quotes = h.market.Prices(ctx, symbols)
		dividends = h.market.Dividends(ctx, symbols)
	}
	return portfolio.Value(holdings, quotes, dividends), holdings, nil
}

func (h *handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	v, _, err := h.valuation(r.Context())
	if err != nil {
		h.respondErr(w, err, "server.handlePortfolio")
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

func (h *handler) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	v, _, err := h.valuation(r.Context())
	if err != nil {
		h.respondErr(w, err, "server.handlePortfolioSummary")
		return
	}
	h.writeJSON(w, http.StatusOK, portfolio.Summarize(v))
}

func (h *handler) handlePortfolioAnalysis(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.store.ListHoldings(r.Context())
	if err != nil {
		h.respondErr(w, err, "server.handlePortfolioAnalysis")
		return
	}
	h.writeJSON(w, http.StatusOK, portfolio.Analyze(holdings))
}

func (h *handler) handlePortfolioReview(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePortfolioReview"

	if !h.reviewer.Configured() {
		h.writeJSON(w, http.StatusOK, h.reviewer.Review(r.Context(), portfolio.Valuation{}))
		return
	}
	v, _, err := h.valuation(r.Context())
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	if len(v.Holdings) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, portfolio.InsightEmpty, op)
		return
	}
	h.writeJSON(w, http.StatusOK, h.reviewer.Review(r.Context(), v))
}

// enrich fills a blank company name or sector from the catalog.
func (h *handler) enrich(holding *portfolio.Holding) {
	if h.market == nil {
		return
	}
	entry, ok := h.market.Catalog().Lookup(holding.Symbol)
	if !ok {
		return
	}
	if holding.CompanyName == "" {
		holding.CompanyName = entry.Name
	}
	if holding.Sector == "" {
		holding.Sector = entry.Sector
	}
}

func (h *handler) handleHoldingCreate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHoldingCreate"

	f, err := readFields(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	symbol := strings.ToUpper(f.text("symbol"))
	if err := market.ValidateIndianSymbol(symbol); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if len(symbol) > MaxSymbolLength {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("symbol must be at most %d characters", MaxSymbolLength), op)
		return
	}

	holding := portfolio.Holding{
		Symbol:      symbol,
		CompanyName: f.text("company_name"),
		Sector:      f.text("sector"),
	}
	if holding.Quantity, err = f.requiredNumber("quantity"); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if holding.BuyPrice, err = f.requiredNumber("buy_price"); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if holding.BuyDate, err = datetime.ParseDateOr(f.text("buy_date"), h.now()); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := portfolio.ValidateHolding(holding); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.enrich(&holding)

	created, err := h.store.CreateHolding(r.Context(), holding)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	h.logger.Info(fmt.Sprintf("%s added to portfolio", created.Symbol),
		zap.String("op", op),
		zap.Int64("id", created.ID),
	)
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s added to your portfolio!", created.Symbol),
		"holding": created,
	})
}

func (h *handler) handleHoldingUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHoldingUpdate"

	id, err := pathID(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	holding, err := h.store.GetHolding(r.Context(), id)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	f, err := readFields(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if f.has("quantity") {
		if holding.Quantity, err = f.number("quantity", 0); err != nil || holding.Quantity <= 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, portfolio.ErrInvalidQuantity.Error(), op)
			return
		}
	}
	if f.has("buy_price") {
		if holding.BuyPrice, err = f.number("buy_price", 0); err != nil || holding.BuyPrice <= 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, portfolio.ErrInvalidPrice.Error(), op)
			return
		}
	}
	if f.has("buy_date") {
		if holding.BuyDate, err = datetime.ParseDate(f.text("buy_date")); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}
	if _, ok := f["sector"]; ok {
		holding.Sector = f.text("sector")
	}

	if err := h.store.UpdateHolding(r.Context(), holding); err != nil {
		h.respondErr(w, err, op)
		return
	}

	quotes := map[string]market.Quote{}
	if h.market != nil {
		if q, ok := h.market.Price(r.Context(), holding.Symbol); ok {
			quotes[holding.Symbol] = q
		}
	}
	position := portfolio.Value([]portfolio.Holding{holding}, quotes, nil).Holdings[0]

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s updated successfully", holding.Symbol),
		"holding": position,
	})
}

func (h *handler) handleHoldingDelete(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHoldingDelete"

	id, err := pathID(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	holding, err := h.store.GetHolding(r.Context(), id)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := h.store.DeleteHolding(r.Context(), id); err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s removed from your portfolio", holding.Symbol),
	})
}

func (h *handler) storeImport(w http.ResponseWriter, r *http.Request, result portfolio.ImportResult, op string) {
	for i := range result.Holdings {
		h.enrich(&result.Holdings[i])
	}
	created, err := h.store.CreateHoldings(r.Context(), result.Holdings)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	h.logger.Info(fmt.Sprintf("imported %d holdings, skipped %d", len(created), result.Skipped),
		zap.String("op", op),
	)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"added":    len(created),
		"skipped":  result.Skipped,
		"holdings": created,
	})
}

func (h *handler) handleHoldingBatch(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHoldingBatch"

	f, err := readFields(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if !f.has("stocks_data") {
		h.respondErrorWithOp(w, http.StatusBadRequest, "stocks_data is required", op)
		return
	}

	h.storeImport(w, r, portfolio.ParseBatch(f["stocks_data"], h.now()), op)
}

func (h *handler) handleHoldingImport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHoldingImport"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "no file uploaded", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		h.respondErrorWithOp(w, http.StatusBadRequest, "please upload a CSV file", op)
		return
	}

	result, err := portfolio.ParseCSV(file, h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error processing CSV: %v", err), op)
		return
	}

	h.storeImport(w, r, result, op)
}
