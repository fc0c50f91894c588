// Package crawler implements the breadth-first site crawler that discovers
// pages, HTML forms, and parameterized URLs for downstream testing.
package crawler

import (
	"net/url"
	"sort"
	"strings"
)

// allowedSchemes restricts crawling and testing to plain web URLs.
// Everything else (mailto, tel, javascript, data, ftp) is dropped.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// NormalizeURL resolves raw against base (when raw is relative), strips
// any fragment, and returns the canonical absolute URL. It returns
// ok=false for unparseable URLs and for schemes outside http/https.
// Normalization is idempotent: normalizing an already normalized URL
// returns it unchanged.
func NormalizeURL(raw, base string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if !u.IsAbs() {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", false
		}
		u = baseURL.ResolveReference(u)
	}

	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}

	u.Fragment = ""
	return u.String(), true
}

// ExtractQueryParams returns the sorted, deduplicated query parameter
// names of a URL, or nil when the URL has no query string.
func ExtractQueryParams(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return nil
	}

	values := u.Query()
	if len(values) == 0 {
		return nil
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
