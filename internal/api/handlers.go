package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"imagescraper/internal/archive"
	"imagescraper/internal/domain"
)

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req domain.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		s.respondWithError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+req.URL)
		return
	}

	refs, err := s.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		s.metrics.IncErrorsTotal("page_fetch_failed")
		s.recordHistory(domain.FetchRecord{
			URL: req.URL, Operation: "scrape", Outcome: "failed", Detail: err.Error(),
		})
		s.respondWithFetchError(w, err)
		return
	}

	s.metrics.IncScrapesTotal()
	s.recordHistory(domain.FetchRecord{
		URL: req.URL, Operation: "scrape", Outcome: "ok",
		Detail: fmt.Sprintf("%d images", len(refs)),
	})
	s.respondWithJSON(w, http.StatusOK, refs)
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		s.respondWithError(w, http.StatusBadRequest, "Image URL parameter is required")
		return
	}

	if res, ok := s.cacheGet(r.Context(), imageURL); ok {
		s.serveImage(w, res)
		return
	}

	s.metrics.IncImageFetchesTotal()
	res, err := s.fetcher.Fetch(r.Context(), imageURL)
	if err != nil {
		s.metrics.IncErrorsTotal("image_fetch_failed")
		s.respondWithFetchError(w, err)
		return
	}
	s.cachePut(r.Context(), res)

	s.serveImage(w, res)
}

func (s *Server) handleDownloadImage(w http.ResponseWriter, r *http.Request) {
	var req domain.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		s.respondWithError(w, http.StatusBadRequest, "Image URL is required")
		return
	}

	s.metrics.IncImageFetchesTotal()
	res, err := s.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		s.metrics.IncErrorsTotal("image_fetch_failed")
		s.recordHistory(domain.FetchRecord{
			URL: req.URL, Operation: "download", Outcome: "failed", Detail: err.Error(),
		})
		s.respondWithFetchError(w, err)
		return
	}

	filename := archive.DeriveFilename(req.Alt, res.SourceURL, res.ContentType, nil)
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Body)

	s.metrics.AddBytesServed(len(res.Body))
	s.recordHistory(domain.FetchRecord{
		URL: req.URL, Operation: "download", Outcome: "ok", Bytes: int64(len(res.Body)),
	})
}

func (s *Server) handleDownloadSelected(w http.ResponseWriter, r *http.Request) {
	var req domain.DownloadSelectedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	archiveBytes, err := s.archiver.Build(r.Context(), req.Images)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			s.respondWithError(w, http.StatusBadRequest, "Image list is required")
		case errors.Is(err, domain.ErrAllFetchesFailed):
			s.respondWithError(w, http.StatusBadGateway, "None of the selected images could be fetched")
		default:
			s.logger.Error("archive assembly failed", zap.Error(err))
			s.respondWithError(w, http.StatusInternalServerError, "Could not assemble archive")
		}
		s.recordHistory(domain.FetchRecord{
			Operation: "archive", Outcome: "failed", Detail: err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="images.zip"`)
	w.WriteHeader(http.StatusOK)
	w.Write(archiveBytes)

	s.metrics.AddBytesServed(len(archiveBytes))
	s.recordHistory(domain.FetchRecord{
		Operation: "archive", Outcome: "ok", Bytes: int64(len(archiveBytes)),
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"server": "healthy"}
	healthy := true

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			healthStatus["redis"] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed for redis", zap.Error(err))
		} else {
			healthStatus["redis"] = "healthy"
		}
	}
	if s.history != nil {
		if err := s.history.Ping(ctx); err != nil {
			healthStatus["postgres"] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed for postgres", zap.Error(err))
		} else {
			healthStatus["postgres"] = "healthy"
		}
	}

	if !healthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) serveImage(w http.ResponseWriter, res *domain.FetchResult) {
	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Body)
	s.metrics.AddBytesServed(len(res.Body))
}

func (s *Server) cacheGet(ctx context.Context, imageURL string) (*domain.FetchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	res, err := s.cache.Get(ctx, imageURL)
	if err != nil {
		s.logger.Warn("proxy cache lookup failed", zap.Error(err))
		return nil, false
	}
	return res, res != nil
}

func (s *Server) cachePut(ctx context.Context, res *domain.FetchResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, res); err != nil {
		s.logger.Warn("proxy cache store failed", zap.Error(err))
	}
}

// recordHistory writes one audit row when the history store is configured.
// Failures are logged, never surfaced: auditing must not break responses.
func (s *Server) recordHistory(rec domain.FetchRecord) {
	if s.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.history.RecordFetch(ctx, rec); err != nil {
		s.logger.Warn("failed to record fetch history", zap.Error(err))
	}
}

// respondWithFetchError maps fetch and parse failures to upstream-style
// status codes with a structured body.
func (s *Server) respondWithFetchError(w http.ResponseWriter, err error) {
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		s.respondWithError(w, http.StatusBadGateway, fetchErr.Error())
		return
	}
	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		s.respondWithError(w, http.StatusBadGateway, parseErr.Error())
		return
	}
	s.logger.Error("unexpected error", zap.Error(err))
	s.respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
