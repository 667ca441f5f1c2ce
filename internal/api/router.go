package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", s.handleHealthCheck)

	r.Post("/scrape", s.handleScrape)
	r.Get("/proxy", s.handleProxy)
	r.Post("/download-image", s.handleDownloadImage)
	r.Post("/download-selected", s.handleDownloadSelected)

	return r
}
