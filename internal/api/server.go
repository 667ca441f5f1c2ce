package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"imagescraper/internal/archive"
	"imagescraper/internal/config"
	"imagescraper/internal/fetcher"
	"imagescraper/internal/monitoring"
	"imagescraper/internal/scraper"
	"imagescraper/internal/storage"
)

// Server holds the dependencies for the HTTP server. cache and history
// are optional and may be nil.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	scraper    *scraper.Scraper
	fetcher    *fetcher.Fetcher
	archiver   *archive.Service
	cache      *storage.ImageCache
	history    *storage.HistoryStore
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, sc *scraper.Scraper, f *fetcher.Fetcher, ar *archive.Service,
	cache *storage.ImageCache, history *storage.HistoryStore, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:   cfg,
		scraper:  sc,
		fetcher:  f,
		archiver: ar,
		cache:    cache,
		history:  history,
		metrics:  m,
		logger:   l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:     s.router,
		ReadTimeout: 10 * time.Second,
		// Bulk archives fetch many images inside one response window.
		WriteTimeout: 150 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
