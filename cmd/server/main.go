package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"imagescraper/internal/api"
	"imagescraper/internal/archive"
	"imagescraper/internal/config"
	"imagescraper/internal/fetcher"
	"imagescraper/internal/monitoring"
	"imagescraper/internal/scraper"
	"imagescraper/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// Optional backends: proxy byte cache and fetch-history audit store
	var cache *storage.ImageCache
	if cfg.RedisAddr != "" {
		cache = storage.NewImageCache(cfg.RedisAddr, time.Duration(cfg.ProxyCacheTTL)*time.Second)
		logger.Info("proxy cache enabled", zap.String("addr", cfg.RedisAddr))
	}
	var history *storage.HistoryStore
	if cfg.PostgresURL != "" {
		history, err = storage.NewHistoryStore(cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer history.Close()
		logger.Info("fetch history enabled")
	}

	// Core pipeline
	metrics := monitoring.NewMetrics()
	pageScraper := scraper.New(cfg, logger)
	imageFetcher := fetcher.New(cfg, logger)
	archiver := archive.NewService(imageFetcher, cfg.FetchWorkers, metrics, logger)

	// API server
	server := api.NewServer(cfg, pageScraper, imageFetcher, archiver, cache, history, metrics, logger)

	// Graceful shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
