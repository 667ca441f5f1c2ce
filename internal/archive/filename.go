package archive

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var extByType = map[string]string{
	"image/jpeg":    ".jpg",
	"image/jpg":     ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DeriveFilename builds a safe, unique filename for one image. The stem
// comes from the alt text, falling back to the URL's last path segment,
// then to "image". The extension is mapped from the content type,
// defaulting to .jpg. Names already present in used get a numeric suffix;
// the chosen name is added to used before returning. used may be nil when
// uniqueness is scoped to a single file.
func DeriveFilename(alt, rawURL, contentType string, used map[string]struct{}) string {
	stem := strings.TrimSpace(alt)
	if stem == "" || suspicious(stem) {
		if s := urlStem(rawURL); s != "" {
			stem = s
		}
	}
	if stem == "" {
		stem = "image"
	}
	stem = strings.ToLower(nonAlnum.ReplaceAllString(stem, "_"))

	ext := extensionFor(contentType)
	name := stem + ext
	for i := 2; ; i++ {
		if _, taken := used[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	if used != nil {
		used[name] = struct{}{}
	}
	return name
}

// suspicious reports alt text that is no use as a filename stem, like a
// pasted URL or a whole paragraph.
func suspicious(stem string) bool {
	lower := strings.ToLower(stem)
	return strings.Contains(lower, "http:") ||
		strings.Contains(lower, "https:") ||
		strings.Contains(lower, ".php") ||
		len(stem) > 80
}

// urlStem extracts the last path segment of rawURL without its extension.
func urlStem(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func extensionFor(contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mediaType, ";"); i != -1 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if ext, ok := extByType[mediaType]; ok {
		return ext
	}
	return ".jpg"
}
