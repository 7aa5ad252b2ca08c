package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/investment-tracker/internal/market"
	"github.com/iwvelando/investment-tracker/internal/news"
	"github.com/iwvelando/investment-tracker/internal/portfolio"
	"github.com/iwvelando/investment-tracker/internal/store"
	"go.uber.org/zap"
)

// DefaultMoversLimit is the number of gainers and losers returned.
const DefaultMoversLimit = 5

const marketUnavailable = "market data is not configured"

func (h *handler) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	if h.market == nil {
		h.writeJSON(w, http.StatusOK, []market.SearchResult{})
		return
	}
	limit := queryInt(r, "limit", market.DefaultSearchLimit)
	h.writeJSON(w, http.StatusOK, h.market.Search(r.URL.Query().Get("q"), limit))
}

func (h *handler) handleStockMovers(w http.ResponseWriter, r *http.Request) {
	if h.market == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, marketUnavailable, "server.handleStockMovers")
		return
	}
	limit := queryInt(r, "limit", DefaultMoversLimit)
	movers := h.market.Movers(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"gainers":             market.Gainers(movers, limit),
		"losers":              market.Losers(movers, limit),
		"sector_distribution": h.market.Catalog().SectorDistribution(),
	})
}

func (h *handler) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStockDetail"

	if h.market == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, marketUnavailable, op)
		return
	}
	detail, err := h.market.Detail(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *handler) handleStockHistory(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStockHistory"

	if h.market == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, marketUnavailable, op)
		return
	}
	q := r.URL.Query()
	history, err := h.market.History(r.Context(), chi.URLParam(r, "symbol"), q.Get("period"), q.Get("interval"))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, history)
}

func (h *handler) handleMarketCacheClear(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMarketCacheClear"

	if h.market == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, marketUnavailable, op)
		return
	}
	if err := h.market.ClearCache(r.Context()); err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "price cache cleared",
	})
}

func (h *handler) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListWatchlist(r.Context())
	if err != nil {
		h.respondErr(w, err, "server.handleWatchlist")
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *handler) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWatchlistAdd"

	f, err := readFields(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	symbol := strings.ToUpper(f.text("symbol"))
	if h.market != nil {
		symbol = h.market.NormalizeSymbol(symbol)
	}
	if err := market.ValidateIndianSymbol(symbol); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	item := store.WatchlistItem{
		Symbol:      symbol,
		CompanyName: f.text("company_name"),
		Sector:      f.text("sector"),
	}
	holding := portfolio.Holding{Symbol: item.Symbol, CompanyName: item.CompanyName, Sector: item.Sector}
	h.enrich(&holding)
	item.CompanyName, item.Sector = holding.CompanyName, holding.Sector

	created, err := h.store.AddWatchlist(r.Context(), item)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.logger.Info(fmt.Sprintf("%s added to watchlist", created.Symbol),
		zap.String("op", op),
	)
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *handler) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWatchlistRemove"

	id, err := pathID(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := h.store.RemoveWatchlist(r.Context(), id); err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("watchlist item %d removed", id),
	})
}

func (h *handler) writeHeadlines(w http.ResponseWriter, items []market.Headline) {
	if items == nil {
		items = []market.Headline{}
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *handler) handleNews(w http.ResponseWriter, r *http.Request) {
	if h.news == nil {
		h.writeHeadlines(w, nil)
		return
	}
	holdings, err := h.store.ListHoldings(r.Context())
	if err != nil {
		h.respondErr(w, err, "server.handleNews")
		return
	}
	if len(holdings) == 0 {
		h.writeHeadlines(w, h.news.Market(r.Context(), news.DefaultLimit))
		return
	}
	h.writeHeadlines(w, h.news.Portfolio(r.Context(), portfolio.Symbols(holdings)))
}

func (h *handler) handleMarketNews(w http.ResponseWriter, r *http.Request) {
	if h.news == nil {
		h.writeHeadlines(w, nil)
		return
	}
	h.writeHeadlines(w, h.news.Market(r.Context(), queryInt(r, "limit", news.DefaultLimit)))
}

func (h *handler) handleNewsSearch(w http.ResponseWriter, r *http.Request) {
	if h.news == nil {
		h.writeHeadlines(w, nil)
		return
	}
	limit := queryInt(r, "limit", news.DefaultLimit)
	h.writeHeadlines(w, h.news.Search(r.Context(), r.URL.Query().Get("q"), limit))
}
