package fetch

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultBaseURL is the English Wikipedia article prefix.
const DefaultBaseURL = "https://en.wikipedia.org/wiki/"

// ArticleURL builds the canonical article URL for a country name. The name is
// trimmed, NFC-normalized, spaces become underscores and the result is
// percent-encoded for use in a URL path.
func ArticleURL(base, country string) string {
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + ArticleSlug(country)
}

// ArticleSlug returns the encoded article path for country. Slashes are kept
// literal since Wikipedia titles such as "AC/DC" address subpaths. Within a
// segment only A-Z a-z 0-9 - _ . ~ stay unescaped, so "C++" becomes
// "C%2B%2B". Spaces are gone by then, so QueryEscape never emits '+'.
func ArticleSlug(country string) string {
	name := norm.NFC.String(strings.TrimSpace(country))
	name = strings.ReplaceAll(name, " ", "_")
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, "/")
}
