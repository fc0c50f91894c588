package types

// Form represents an HTML form discovered during crawling.
// Forms are deduplicated by (PageURL, ActionURL, Method).
type Form struct {
	PageURL   string   `json:"page_url" yaml:"page_url"`
	ActionURL string   `json:"action_url" yaml:"action_url"`
	Method    string   `json:"method" yaml:"method"` // get or post
	Inputs    []string `json:"inputs" yaml:"inputs"` // ordered, unique input names
}

// Key returns the deduplication key for the form
func (f Form) Key() string {
	return f.PageURL + "\x00" + f.ActionURL + "\x00" + f.Method
}

// ParamURL represents a discovered URL carrying query parameters.
// Deduplicated by URL; the first occurrence's parameter set wins.
type ParamURL struct {
	URL    string   `json:"url" yaml:"url"`
	Params []string `json:"params" yaml:"params"`
}

// CrawlResult is the crawler's output: discovered pages, forms, and
// parameterized URLs. Pages are sorted and unique.
type CrawlResult struct {
	Pages  []string   `json:"pages" yaml:"pages"`
	Forms  []Form     `json:"forms" yaml:"forms"`
	Params []ParamURL `json:"params" yaml:"params"`
}

// Test case origin constants
const (
	OriginParam = "param"
	OriginForm  = "form"
)

// TestCase represents one concrete injection attempt: a target surface plus
// one payload. Immutable once created; consumed exactly once by the engine.
type TestCase struct {
	ID         string   `json:"id"`
	Method     string   `json:"method"`
	URL        string   `json:"url"`
	Param      string   `json:"param"`
	Payload    string   `json:"payload"` // resolved payload value
	Note       string   `json:"note,omitempty"`
	Origin     string   `json:"origin"` // param or form
	Category   string   `json:"category"`
	LabOnly    bool     `json:"lab_only"`
	FormInputs []string `json:"form_inputs,omitempty"`
}
