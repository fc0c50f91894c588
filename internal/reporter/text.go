package reporter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// TextReporter generates plain text reports
type TextReporter struct {
	options ReportOptions
}

// NewTextReporter creates a new text reporter
func NewTextReporter(options ReportOptions) *TextReporter {
	return &TextReporter{options: options}
}

// Format returns the format name
func (r *TextReporter) Format() string {
	return "text"
}

// Extension returns the file extension
func (r *TextReporter) Extension() string {
	return "txt"
}

// Generate generates a text report
func (r *TextReporter) Generate(result *types.ScanResult) ([]byte, error) {
	var buf bytes.Buffer

	SortFindingsBySeverity(result.Findings)

	title := r.options.Title
	if title == "" {
		title = "Security Scan Report"
	}

	rule := strings.Repeat("=", 70)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Scan ID:   %s\n", result.ScanID)
	fmt.Fprintf(&buf, "Target:    %s\n", result.Target)
	fmt.Fprintf(&buf, "Started:   %s\n", result.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&buf, "Duration:  %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(&buf, "Pages:     %d\n", result.Pages)
	fmt.Fprintf(&buf, "Requests:  %d\n", result.Requests)
	fmt.Fprintln(&buf)

	if result.Summary != nil {
		fmt.Fprintln(&buf, "SUMMARY")
		fmt.Fprintln(&buf, strings.Repeat("-", 70))
		fmt.Fprintf(&buf, "Total findings: %d\n", result.Summary.TotalFindings)
		fmt.Fprintf(&buf, "  Critical: %d\n", result.Summary.CriticalFindings)
		fmt.Fprintf(&buf, "  High:     %d\n", result.Summary.HighFindings)
		fmt.Fprintf(&buf, "  Medium:   %d\n", result.Summary.MediumFindings)
		fmt.Fprintf(&buf, "  Low:      %d\n", result.Summary.LowFindings)
		fmt.Fprintln(&buf)
	}

	if len(result.Findings) == 0 {
		fmt.Fprintln(&buf, "No findings.")
		return buf.Bytes(), nil
	}

	fmt.Fprintln(&buf, "FINDINGS")
	fmt.Fprintln(&buf, strings.Repeat("-", 70))

	for i, f := range result.Findings {
		fmt.Fprintf(&buf, "%d. %s %s (%s)\n", i+1, SeverityIcon(f.Severity), f.Category, f.Severity)
		fmt.Fprintf(&buf, "   URL:     %s\n", f.URL)
		if f.Param != "" {
			fmt.Fprintf(&buf, "   Param:   %s\n", f.Param)
		}
		fmt.Fprintf(&buf, "   Method:  %s\n", f.Method)
		if f.Payload != "" {
			fmt.Fprintf(&buf, "   Payload: %s\n", TruncateString(f.Payload, 120))
		}
		fmt.Fprintf(&buf, "   Status:  %d\n", f.Status)
		if r.options.Verbose && f.Evidence != "" {
			fmt.Fprintf(&buf, "   Evidence: %s\n", TruncateString(strings.ReplaceAll(f.Evidence, "\n", " "), 200))
		}
		fmt.Fprintln(&buf)
	}

	return buf.Bytes(), nil
}

// Write writes the text report to a writer
func (r *TextReporter) Write(result *types.ScanResult, w io.Writer) error {
	data, err := r.Generate(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
