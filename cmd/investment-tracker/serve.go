package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/iwvelando/investment-tracker/internal/cache"
	"github.com/iwvelando/investment-tracker/internal/market"
	"github.com/iwvelando/investment-tracker/internal/news"
	"github.com/iwvelando/investment-tracker/internal/review"
	"github.com/iwvelando/investment-tracker/internal/server"
	"github.com/iwvelando/investment-tracker/internal/store"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(conf.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("failed to close database",
				zap.String("op", "main.runServe"),
				zap.Error(closeErr),
			)
		}
	}()

	priceCache, err := cache.New(logger, cache.Options{
		Backend:       conf.Cache.Backend,
		RedisAddress:  conf.Cache.RedisAddress,
		RedisPassword: conf.Cache.RedisPassword,
		RedisDB:       conf.Cache.RedisDB,
		RedisPrefix:   conf.Cache.RedisPrefix,
	})
	if err != nil {
		return err
	}

	provider := market.NewYahooProvider(logger, market.YahooOptions{
		BaseURL:   conf.Market.BaseURL,
		Timeout:   conf.Market.Timeout,
		UserAgent: conf.Market.UserAgent,
	})
	marketService := market.NewService(logger, provider, market.DefaultCatalog(), priceCache, market.ServiceOptions{
		PriceTTL:    conf.Cache.PriceTTL,
		DividendTTL: conf.Cache.DividendTTL,
	})

	var searcher news.Searcher
	if conf.News.APIKey != "" {
		searcher = news.NewNewsAPI(logger, conf.News.BaseURL, conf.News.APIKey, conf.Market.Timeout)
	}
	newsService := news.NewService(logger, marketService, searcher)

	var generator review.Generator
	if conf.AI.APIKey != "" {
		gemini, err := review.NewGeminiGenerator(ctx, conf.AI.APIKey, conf.AI.Model)
		if err != nil {
			logger.Warn(fmt.Sprintf("portfolio review disabled: %v", err),
				zap.String("op", "main.runServe"),
			)
		} else {
			generator = gemini
		}
	}

	handler := server.NewHandler(logger, server.Dependencies{
		Store:    db,
		Market:   marketService,
		News:     newsService,
		Reviewer: review.NewReviewer(logger, generator),
	}, conf.Server.UploadSizeBytes(), version)

	srv := &http.Server{
		Addr:              conf.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: constants.DefaultHTTPTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("listening on %s", conf.Server.Address),
			zap.String("op", "main.runServe"),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		zap.String("op", "main.runServe"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
