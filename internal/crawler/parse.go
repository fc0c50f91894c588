package crawler

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// PageContent is the raw extraction result for a single fetched page,
// before crawl-level deduplication.
type PageContent struct {
	Links []string
	Forms []types.Form
}

// ParseHTML extracts anchors and forms from a page body. Link targets are
// normalized against the page URL; targets that fail normalization are
// dropped. Forms keep their declared action and method, with two
// fallbacks: an empty or unnormalizable action resolves to the hosting
// page's own URL, and any method other than get/post is treated as get.
func ParseHTML(r io.Reader, pageURL string) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	content := &PageContent{}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		normalized, ok := NormalizeURL(href, pageURL)
		if !ok || seen[normalized] {
			return
		}
		seen[normalized] = true
		content.Links = append(content.Links, normalized)
	})

	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		content.Forms = append(content.Forms, parseForm(s, pageURL))
	})

	return content, nil
}

func parseForm(s *goquery.Selection, pageURL string) types.Form {
	action, _ := s.Attr("action")
	actionURL, ok := NormalizeURL(action, pageURL)
	if action == "" || !ok {
		actionURL, _ = NormalizeURL(pageURL, pageURL)
	}

	method := strings.ToLower(strings.TrimSpace(s.AttrOr("method", "get")))
	if method != "get" && method != "post" {
		method = "get"
	}

	var inputs []string
	fieldSeen := make(map[string]bool)
	s.Find("input[name], textarea[name], select[name]").Each(func(_ int, field *goquery.Selection) {
		name, _ := field.Attr("name")
		if name == "" || fieldSeen[name] {
			return
		}
		fieldSeen[name] = true
		inputs = append(inputs, name)
	})

	return types.Form{
		PageURL:   pageURL,
		ActionURL: actionURL,
		Method:    method,
		Inputs:    inputs,
	}
}
