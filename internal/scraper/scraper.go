package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"imagescraper/internal/config"
	"imagescraper/internal/domain"
)

// Scraper fetches a page and extracts its image references.
type Scraper struct {
	cfg      *config.Config
	client   *http.Client
	renderer *Renderer // nil unless RENDER_JS is enabled
	logger   *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Scraper {
	s := &Scraper{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.PageTimeout) * time.Second,
		},
		logger: logger,
	}
	if cfg.RenderJS {
		s.renderer = NewRenderer(cfg)
	}
	return s
}

// Scrape fetches pageURL and returns every image reference on it whose
// source resolves to an absolute URL, in document order.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) ([]domain.ImageRef, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &domain.FetchError{URL: pageURL, Err: err}
	}

	htmlContent, err := s.fetchHTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &domain.ParseError{URL: pageURL, Err: err}
	}

	refs := extractImages(doc, base)
	s.logger.Info("scraped page",
		zap.String("url", pageURL),
		zap.Int("images", len(refs)))
	return refs, nil
}

func (s *Scraper) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	if s.renderer != nil {
		return s.renderer.Render(pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Err: err}
	}
	// Many sites reject Go's default client identifier.
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{URL: pageURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Err: err}
	}
	return string(body), nil
}
