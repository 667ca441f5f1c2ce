package domain

// ImageRef is one image reference extracted from a page, with its
// source URL resolved to an absolute form.
type ImageRef struct {
	URL string `json:"src"`
	Alt string `json:"alt"`
}

// ScrapeRequest is the payload for POST /scrape.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// DownloadRequest is the payload for POST /download-image, and one
// element of a bulk selection.
type DownloadRequest struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// DownloadSelectedRequest is the payload for POST /download-selected.
type DownloadSelectedRequest struct {
	Images []DownloadRequest `json:"images"`
}

// FetchResult holds the bytes of one fetched remote image. It is
// transient: built for a single response and discarded with it.
type FetchResult struct {
	Body        []byte
	ContentType string
	SourceURL   string
}

// FetchRecord is one row of the optional fetch-history audit trail.
type FetchRecord struct {
	URL       string
	Operation string // "scrape", "proxy", "download", "archive"
	Outcome   string // "ok", "failed"
	Bytes     int64
	Detail    string
}
