package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"imagescraper/internal/config"
	"imagescraper/internal/domain"
)

// Renderer fetches a page through headless chrome so that lazily
// populated image tags are present in the extracted HTML.
type Renderer struct {
	timeout time.Duration
	ctxPool sync.Pool
}

func NewRenderer(cfg *config.Config) *Renderer {
	r := &Renderer{
		timeout: time.Duration(cfg.PageTimeout) * time.Second,
	}
	r.ctxPool.New = func() interface{} {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", ""),
			chromedp.Flag("disable-dev-shm-usage", ""),
		)
		allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
		return allocCtx
	}
	return r
}

// Render navigates to pageURL and returns the document HTML after the
// body became visible.
func (r *Renderer) Render(pageURL string) (string, error) {
	allocCtx := r.ctxPool.Get().(context.Context)
	defer r.ctxPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.timeout)
	defer cancelTimeout()

	var htmlContent string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Err: err}
	}
	return htmlContent, nil
}
