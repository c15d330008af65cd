package localizer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// References finds CDN image URLs of the form <base>/max/<size>/<identifier>.
type References struct {
	base string
	re   *regexp.Regexp
}

// NewReferences compiles the URL pattern for a CDN base such as
// "https://cdn-images-1.medium.com".
func NewReferences(cdnBase string) *References {
	base := strings.TrimRight(cdnBase, "/")
	return &References{
		base: base,
		re:   regexp.MustCompile(regexp.QuoteMeta(base) + `/max/\d+/([^\s\)"'<>]+)`),
	}
}

// ExtractIdentifiers returns the distinct identifiers in content in first-seen order.
func (r *References) ExtractIdentifiers(content string) []string {
	matches := r.re.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// DownloadURL builds the URL an identifier is fetched from.
func (r *References) DownloadURL(id string, size int) string {
	return fmt.Sprintf("%s/max/%d/%s", r.base, size, id)
}

// Rewrite replaces every reference whose identifier resolve knows about.
// Other references are left byte-identical.
func (r *References) Rewrite(content string, resolve func(id string) (string, bool)) string {
	return r.re.ReplaceAllStringFunc(content, func(match string) string {
		m := r.re.FindStringSubmatch(match)
		if m == nil {
			return match
		}
		if local, ok := resolve(m[1]); ok {
			return local
		}
		return match
	})
}

var knownExtensions = []string{".png", ".jpeg", ".jpg", ".gif", ".webp", ".svg"}

// ExtensionFromURL returns the image suffix of url, if it has a known one.
func ExtensionFromURL(url string) (string, bool) {
	lower := strings.ToLower(url)
	for _, ext := range knownExtensions {
		if strings.HasSuffix(lower, ext) {
			return ext, true
		}
	}
	return "", false
}

// GuessExtension picks a file extension from the URL suffix, then the
// content type, and falls back to .png.
func GuessExtension(url, contentType string) string {
	if ext, ok := ExtensionFromURL(url); ok {
		return ext
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpeg"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "webp"):
		return ".webp"
	}
	return ".png"
}

var datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// PostSlug strips the date prefix and .md suffix from a post filename.
func PostSlug(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), ".md")
	return datePrefixRe.ReplaceAllString(name, "")
}
