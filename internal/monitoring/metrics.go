package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ScrapesTotal      *prometheus.CounterVec
	ImageFetchesTotal *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	BytesServedTotal  prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		ScrapesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "imagescraper_scrapes_total",
			Help: "The total number of pages scraped",
		}, nil),
		ImageFetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "imagescraper_image_fetches_total",
			Help: "The total number of remote image fetch attempts",
		}, nil),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "imagescraper_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'page_fetch_failed', 'image_fetch_failed'
		BytesServedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "imagescraper_bytes_served_total",
			Help: "The total number of image and archive bytes served to clients",
		}),
	}
}

func (m *Metrics) IncScrapesTotal() {
	m.ScrapesTotal.WithLabelValues().Inc()
}

func (m *Metrics) IncImageFetchesTotal() {
	m.ImageFetchesTotal.WithLabelValues().Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) AddBytesServed(n int) {
	m.BytesServedTotal.Add(float64(n))
}
