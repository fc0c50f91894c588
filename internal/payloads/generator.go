package payloads

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// Generator combines crawl output with a payload catalog to produce a
// finite sequence of test cases. The sequence is fully materialized;
// consumption order carries no meaning. Lab-only cases are flagged but
// never dropped here; exclusion is the caller's decision (see Filter).
type Generator struct {
	catalog  Catalog
	perField int
}

// NewGenerator creates a test case generator. perField caps how many
// payloads of each category are emitted per parameter or form field.
func NewGenerator(catalog Catalog, perField int) *Generator {
	return &Generator{catalog: catalog, perField: perField}
}

// Generate produces test cases for every discovered surface in the crawl
// result: parameterized URLs first, then forms.
func (g *Generator) Generate(result *types.CrawlResult) []types.TestCase {
	cases := g.FromParams(result.Params)
	return append(cases, g.FromForms(result.Forms)...)
}

// FromParams generates GET test cases from discovered parameterized URLs.
// For each parameter name and each applicable category, up to perField
// payloads are injected into the target parameter; all other query
// parameters are preserved unmodified.
func (g *Generator) FromParams(params []types.ParamURL) []types.TestCase {
	var cases []types.TestCase

	for _, item := range params {
		for _, param := range item.Params {
			for _, category := range g.catalog.Categories() {
				// Identifier tampering only makes sense against
				// numeric-looking parameters.
				if category == CategoryIDORNumeric && !isNumericParam(param) {
					continue
				}

				for _, p := range truncate(g.catalog[category], g.perField) {
					testURL, value, ok := injectPayload(item.URL, param, p, category)
					if !ok {
						continue
					}

					cases = append(cases, types.TestCase{
						ID:       uuid.New().String(),
						Method:   "GET",
						URL:      testURL,
						Param:    param,
						Payload:  value,
						Note:     p.Note,
						Origin:   types.OriginParam,
						Category: category,
						LabOnly:  IsLabOnly(category, p),
					})
				}
			}
		}
	}

	return cases
}

// FromForms generates test cases from discovered forms. The form's declared
// method and action are used as-is; FormInputs is carried so the engine can
// fill non-target fields with an inert placeholder. Identifier tampering is
// never applicable to form fields and is skipped entirely.
func (g *Generator) FromForms(forms []types.Form) []types.TestCase {
	var cases []types.TestCase

	for _, form := range forms {
		for _, input := range form.Inputs {
			for _, category := range g.catalog.Categories() {
				if category == CategoryIDORNumeric {
					continue
				}

				for _, p := range truncate(g.catalog[category], g.perField) {
					cases = append(cases, types.TestCase{
						ID:         uuid.New().String(),
						Method:     strings.ToUpper(form.Method),
						URL:        form.ActionURL,
						Param:      input,
						Payload:    p.Value,
						Note:       p.Note,
						Origin:     types.OriginForm,
						Category:   category,
						LabOnly:    IsLabOnly(category, p),
						FormInputs: form.Inputs,
					})
				}
			}
		}
	}

	return cases
}

// Filter applies caller-level policy to a generated set: lab-only cases
// are excluded unless explicitly opted in, and the total is capped.
// maxTotal <= 0 means unlimited.
func Filter(cases []types.TestCase, includeLabOnly bool, maxTotal int) []types.TestCase {
	filtered := cases
	if !includeLabOnly {
		filtered = filtered[:0:0]
		for _, tc := range cases {
			if !tc.LabOnly {
				filtered = append(filtered, tc)
			}
		}
	}

	if maxTotal > 0 && len(filtered) > maxTotal {
		filtered = filtered[:maxTotal]
	}

	return filtered
}

// injectPayload rewrites rawURL so the target parameter carries the
// resolved payload value, preserving scheme, host, path, and all other
// query parameters. Returns ok=false when the URL cannot be parsed.
func injectPayload(rawURL, param string, p Payload, category string) (testURL, value string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}

	q := u.Query()
	value = resolveValue(category, p, q.Get(param))
	q.Set(param, value)
	u.RawQuery = q.Encode()
	u.Fragment = ""

	return u.String(), value, true
}

// resolveValue turns a catalog entry into the concrete string injected
// into the target parameter. Adjacent directives perturb the parameter's
// original value; when that value is absent it defaults to "1", and when
// it fails to parse as an integer the delta itself is used literally.
func resolveValue(category string, p Payload, original string) string {
	if category != CategoryIDORNumeric {
		return p.Value
	}

	switch p.Kind {
	case KindAdjacent:
		if original == "" {
			original = "1"
		}
		if n, err := strconv.Atoi(original); err == nil {
			return strconv.Itoa(n + p.Delta)
		}
		return strconv.Itoa(p.Delta)
	default:
		return strconv.Itoa(p.Fixed)
	}
}

// numericTokens are parameter-name fragments that suggest a numeric
// identifier worth tampering with.
var numericTokens = []string{
	"id", "page", "offset", "limit", "count", "num", "index",
	"user_id", "item_id", "product_id", "order_id",
}

func isNumericParam(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range numericTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func truncate(list []Payload, max int) []Payload {
	if max > 0 && len(list) > max {
		return list[:max]
	}
	return list
}
