package reporter

import (
	"bytes"
	"html/template"
	"io"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// HTMLReporter generates standalone HTML reports
type HTMLReporter struct {
	options ReportOptions
}

// NewHTMLReporter creates a new HTML reporter
func NewHTMLReporter(options ReportOptions) *HTMLReporter {
	return &HTMLReporter{options: options}
}

// Format returns the format name
func (r *HTMLReporter) Format() string {
	return "html"
}

// Extension returns the file extension
func (r *HTMLReporter) Extension() string {
	return "html"
}

// Generate generates an HTML report
func (r *HTMLReporter) Generate(result *types.ScanResult) ([]byte, error) {
	SortFindingsBySeverity(result.Findings)

	title := r.options.Title
	if title == "" {
		title = "Security Scan Report"
	}

	var buf bytes.Buffer
	err := htmlTemplate.Execute(&buf, struct {
		Title  string
		Result *types.ScanResult
	}{
		Title:  title,
		Result: result,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the HTML report to a writer
func (r *HTMLReporter) Write(result *types.ScanResult, w io.Writer) error {
	data, err := r.Generate(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2em auto; max-width: 960px; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.3em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
.severity-critical { color: #fff; background: #b30000; padding: 2px 8px; border-radius: 3px; }
.severity-high { color: #fff; background: #d9534f; padding: 2px 8px; border-radius: 3px; }
.severity-medium { color: #222; background: #f0ad4e; padding: 2px 8px; border-radius: 3px; }
.severity-low { color: #fff; background: #5bc0de; padding: 2px 8px; border-radius: 3px; }
.evidence { font-family: monospace; font-size: 0.85em; white-space: pre-wrap; word-break: break-all; }
.meta td:first-child { font-weight: bold; width: 10em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<table class="meta">
<tr><td>Scan ID</td><td>{{.Result.ScanID}}</td></tr>
<tr><td>Target</td><td>{{.Result.Target}}</td></tr>
<tr><td>Started</td><td>{{.Result.StartTime.Format "2006-01-02 15:04:05"}}</td></tr>
<tr><td>Duration</td><td>{{.Result.Duration}}</td></tr>
<tr><td>Pages</td><td>{{.Result.Pages}}</td></tr>
<tr><td>Requests</td><td>{{.Result.Requests}}</td></tr>
</table>

{{with .Result.Summary}}
<h2>Summary</h2>
<table>
<tr><th>Total</th><th>Critical</th><th>High</th><th>Medium</th><th>Low</th></tr>
<tr><td>{{.TotalFindings}}</td><td>{{.CriticalFindings}}</td><td>{{.HighFindings}}</td><td>{{.MediumFindings}}</td><td>{{.LowFindings}}</td></tr>
</table>
{{end}}

<h2>Findings</h2>
{{if .Result.Findings}}
<table>
<tr><th>Severity</th><th>Category</th><th>URL</th><th>Param</th><th>Method</th><th>Status</th><th>Evidence</th></tr>
{{range .Result.Findings}}
<tr>
<td><span class="severity-{{.Severity}}">{{.Severity}}</span></td>
<td>{{.Category}}</td>
<td>{{.URL}}</td>
<td>{{.Param}}</td>
<td>{{.Method}}</td>
<td>{{.Status}}</td>
<td class="evidence">{{.Evidence}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No findings.</p>
{{end}}

</body>
</html>
`))
