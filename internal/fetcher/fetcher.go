package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"imagescraper/internal/config"
	"imagescraper/internal/domain"
)

// Fetcher retrieves raw bytes for one remote image URL. It is shared by
// the proxy, single-download and bulk-archive paths and never lets a
// failure escape as anything other than a FetchError.
type Fetcher struct {
	cfg    *config.Config
	client *http.Client
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeout) * time.Second,
		},
		logger: logger,
	}
}

// Fetch retrieves rawURL and returns its bytes with the captured
// content-type. Payloads beyond MaxImageBytes are rejected with a
// FetchError wrapping ErrPayloadTooLarge.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	// Mimic a direct visit to the hosting site; some hosts refuse
	// requests without a matching referer.
	if u, perr := url.Parse(rawURL); perr == nil && u.Host != "" {
		req.Header.Set("Referer", u.Scheme+"://"+u.Host+"/")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	// Read at most one byte past the ceiling so oversized responses are
	// detected without buffering them whole.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxImageBytes+1))
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	if int64(len(body)) > f.cfg.MaxImageBytes {
		f.logger.Warn("rejecting oversized payload",
			zap.String("url", rawURL),
			zap.Int64("limit", f.cfg.MaxImageBytes))
		return nil, &domain.FetchError{URL: rawURL, Err: domain.ErrPayloadTooLarge}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &domain.FetchResult{
		Body:        body,
		ContentType: contentType,
		SourceURL:   rawURL,
	}, nil
}
