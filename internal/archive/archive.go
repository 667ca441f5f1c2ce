package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"imagescraper/internal/domain"
	"imagescraper/internal/fetcher"
	"imagescraper/internal/monitoring"
)

// Service fetches a selection of images and packages the successful ones
// into a single zip. A failed item never aborts the batch.
type Service struct {
	fetcher *fetcher.Fetcher
	workers int
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

func NewService(f *fetcher.Fetcher, workers int, m *monitoring.Metrics, l *zap.Logger) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		fetcher: f,
		workers: workers,
		metrics: m,
		logger:  l,
	}
}

// Build fetches every item with bounded concurrency and returns the zip
// bytes of all successes. Entries keep input order regardless of fetch
// completion order, so filename suffix numbering is deterministic. Errors
// are returned only for an empty selection or when every item failed.
func (s *Service) Build(ctx context.Context, items []domain.DownloadRequest) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: image list is empty", domain.ErrValidation)
	}

	// Index-addressed results: slot i belongs to items[i].
	results := make([]*domain.FetchResult, len(items))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item domain.DownloadRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			s.metrics.IncImageFetchesTotal()
			res, err := s.fetcher.Fetch(ctx, item.URL)
			if err != nil {
				s.metrics.IncErrorsTotal("image_fetch_failed")
				s.logger.Warn("skipping failed image",
					zap.String("url", item.URL), zap.Error(err))
				return
			}
			results[i] = res
		}(i, item)
	}
	wg.Wait()

	used := make(map[string]struct{})
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	packed := 0
	for i, res := range results {
		if res == nil {
			continue
		}
		name := DeriveFilename(items[i].Alt, res.SourceURL, res.ContentType, used)
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("creating archive entry %s: %w", name, err)
		}
		if _, err := w.Write(res.Body); err != nil {
			zw.Close()
			return nil, fmt.Errorf("writing archive entry %s: %w", name, err)
		}
		packed++
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	if packed == 0 {
		return nil, domain.ErrAllFetchesFailed
	}

	s.logger.Info("assembled archive",
		zap.Int("requested", len(items)), zap.Int("packed", packed))
	return buf.Bytes(), nil
}
