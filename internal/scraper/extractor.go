package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"imagescraper/internal/domain"
)

// extractImages walks every img tag in document order and returns the
// references whose sources resolve to an absolute http(s) URL. Duplicate
// sources are kept: a page may legitimately reference the same URL twice
// with different alt text.
func extractImages(doc *goquery.Document, base *url.URL) []domain.ImageRef {
	refs := make([]domain.ImageRef, 0)

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		// Lazy-loaded images carry the real source in data-src.
		src := s.AttrOr("data-src", "")
		if src == "" {
			src = s.AttrOr("src", "")
		}

		resolved, err := ResolveImageURL(base, src)
		if err != nil {
			return
		}

		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if alt == "" {
			alt = figureCaption(s)
		}

		refs = append(refs, domain.ImageRef{URL: resolved, Alt: alt})
	})

	return refs
}

// figureCaption returns the figcaption text of the enclosing figure, if
// any, as a label for images published without alt text.
func figureCaption(s *goquery.Selection) string {
	fig := s.Closest("figure")
	if fig.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(fig.Find("figcaption").First().Text())
}
