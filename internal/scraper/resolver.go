package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// fandomExt matches the image extension inside Fandom/Wikia thumbnail
// URLs so resizing suffixes (/revision/latest/scale-to-width-down/150)
// can be cut off to recover the full-resolution image.
var fandomExt = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp)`)

// ResolveImageURL turns a possibly-relative image source into an absolute,
// fetchable URL. Empty candidates, data URIs and non-http(s) schemes are
// rejected so the caller can drop the image without failing the scrape.
func ResolveImageURL(base *url.URL, candidate string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", fmt.Errorf("empty image source")
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return "", err
	}
	switch ref.Scheme {
	case "http", "https":
		return cleanImageURL(candidate), nil
	case "":
		// Relative, root-relative or protocol-relative (//host/path):
		// standard relative-reference resolution covers all three.
		return cleanImageURL(base.ResolveReference(ref).String()), nil
	default:
		return "", fmt.Errorf("unsupported scheme %q", ref.Scheme)
	}
}

func cleanImageURL(raw string) string {
	if !strings.Contains(raw, "wikia.nocookie.net") {
		return raw
	}
	loc := fandomExt.FindStringIndex(raw)
	if loc == nil {
		return raw
	}
	trimmed := raw[:loc[1]]
	if q := strings.Index(raw, "?"); q != -1 {
		trimmed += raw[q:]
	}
	return trimmed
}
