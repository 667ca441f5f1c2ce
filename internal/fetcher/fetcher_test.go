package fetcher

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"imagescraper/internal/config"
	"imagescraper/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		FetchTimeout:  5,
		MaxImageBytes: 1 << 20,
		UserAgent:     "test-agent",
	}
}

func TestFetch_Success(t *testing.T) {
	payload := []byte("not really a png")
	var gotUA, gotReferer string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer ts.Close()

	f := New(testConfig(), zap.NewNop())
	res, err := f.Fetch(context.Background(), ts.URL+"/pic.png")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if !bytes.Equal(res.Body, payload) {
		t.Errorf("body mismatch: got %q", res.Body)
	}
	if res.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", res.ContentType)
	}
	if res.SourceURL != ts.URL+"/pic.png" {
		t.Errorf("SourceURL = %q", res.SourceURL)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want test-agent", gotUA)
	}
	if gotReferer != ts.URL+"/" {
		t.Errorf("Referer = %q, want %q", gotReferer, ts.URL+"/")
	}
}

func TestFetch_DefaultContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Suppress Go's content sniffing so no Content-Type header is sent.
		w.Header()["Content-Type"] = nil
		w.Write([]byte("mystery bytes"))
	}))
	defer ts.Close()

	f := New(testConfig(), zap.NewNop())
	res, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if res.ContentType != "application/octet-stream" {
		t.Errorf("ContentType = %q, want application/octet-stream", res.ContentType)
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	f := New(testConfig(), zap.NewNop())
	_, err := f.Fetch(context.Background(), ts.URL)

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", fetchErr.Status)
	}
}

func TestFetch_PayloadTooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.MaxImageBytes = 63

	f := New(cfg, zap.NewNop())
	_, err := f.Fetch(context.Background(), ts.URL)

	if !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("oversized payload should still surface as a FetchError, got %T", err)
	}
}

func TestFetch_PayloadAtLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.MaxImageBytes = 64

	f := New(cfg, zap.NewNop())
	res, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("payload exactly at the limit must pass: %v", err)
	}
	if len(res.Body) != 64 {
		t.Errorf("got %d bytes, want 64", len(res.Body))
	}
}

func TestFetch_ConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	f := New(testConfig(), zap.NewNop())
	_, err := f.Fetch(context.Background(), ts.URL)

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}
