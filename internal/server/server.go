// Package server exposes the tracker over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/investment-tracker/internal/market"
	"github.com/iwvelando/investment-tracker/internal/news"
	"github.com/iwvelando/investment-tracker/internal/review"
	"github.com/iwvelando/investment-tracker/internal/store"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"go.uber.org/zap"
)

// Dependencies are the services the API is built on. Market, News and
// Reviewer may be nil; the endpoints that need them then degrade.
type Dependencies struct {
	Store    *store.Store
	Market   *market.Service
	News     *news.Service
	Reviewer *review.Reviewer
}

type handler struct {
	logger        *zap.Logger
	store         *store.Store
	market        *market.Service
	news          *news.Service
	reviewer      *review.Reviewer
	maxUploadSize int64
	version       string
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the tracker API.
func NewHandler(logger *zap.Logger, deps Dependencies, maxUploadSize int64, version string) http.Handler {
	return newHandler(logger, deps, maxUploadSize, version).routes()
}

func newHandler(logger *zap.Logger, deps Dependencies, maxUploadSize int64, version string) *handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	reviewer := deps.Reviewer
	if reviewer == nil {
		reviewer = review.NewReviewer(logger, nil)
	}
	newsService := deps.News
	if newsService == nil && deps.Market != nil {
		newsService = news.NewService(logger, deps.Market, nil)
	}

	return &handler{
		logger:        logger,
		store:         deps.Store,
		market:        deps.Market,
		news:          newsService,
		reviewer:      reviewer,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		now:           time.Now,
	}
}

func (h *handler) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Post("/goals/calculate", h.handleGoalCalculate)
		r.Get("/goals", h.handleGoalList)
		r.Post("/goals", h.handleGoalCreate)
		r.Delete("/goals/{id}", h.handleGoalDelete)

		r.Get("/portfolio", h.handlePortfolio)
		r.Get("/portfolio/summary", h.handlePortfolioSummary)
		r.Get("/portfolio/analysis", h.handlePortfolioAnalysis)
		r.Post("/portfolio/review", h.handlePortfolioReview)

		r.Post("/holdings", h.handleHoldingCreate)
		r.Post("/holdings/batch", h.handleHoldingBatch)
		r.Post("/holdings/import", h.handleHoldingImport)
		r.Put("/holdings/{id}", h.handleHoldingUpdate)
		r.Delete("/holdings/{id}", h.handleHoldingDelete)

		r.Get("/watchlist", h.handleWatchlist)
		r.Post("/watchlist", h.handleWatchlistAdd)
		r.Delete("/watchlist/{id}", h.handleWatchlistRemove)

		r.Get("/stocks/search", h.handleStockSearch)
		r.Get("/stocks/movers", h.handleStockMovers)
		r.Get("/stocks/{symbol}", h.handleStockDetail)
		r.Get("/stocks/{symbol}/history", h.handleStockHistory)
		r.Delete("/market/cache", h.handleMarketCacheClear)

		r.Get("/news", h.handleNews)
		r.Get("/news/market", h.handleMarketNews)
		r.Get("/news/search", h.handleNewsSearch)
	})

	return r
}

func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug(fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			zap.String("op", "server.requestLogger"),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, market.ErrUnknownSymbol), errors.Is(err, market.ErrNoHistory):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyWatched):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Warn("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) respondErr(w http.ResponseWriter, err error, op string) {
	h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
