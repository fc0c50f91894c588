// Package reporter provides output formatting for scan results
package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// Reporter interface for generating reports
type Reporter interface {
	// Generate generates a report from scan results
	Generate(result *types.ScanResult) ([]byte, error)

	// Write writes the report to a writer
	Write(result *types.ScanResult, w io.Writer) error

	// Format returns the report format name
	Format() string

	// Extension returns the file extension for this format
	Extension() string
}

// NewReporter creates a reporter based on format
func NewReporter(format string, options ReportOptions) (Reporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONReporter(options), nil
	case "html":
		return NewHTMLReporter(options), nil
	case "text", "txt":
		return NewTextReporter(options), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// ReportOptions contains options for report generation
type ReportOptions struct {
	IncludeConfig bool   // Include scan configuration
	Verbose       bool   // Verbose output
	Title         string // Custom report title
}

// DefaultOptions returns default report options
func DefaultOptions() ReportOptions {
	return ReportOptions{
		IncludeConfig: true,
		Verbose:       false,
		Title:         "Perlustro Security Scan Report",
	}
}

// WriteToFile writes a report to a file
func WriteToFile(reporter Reporter, result *types.ScanResult, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return reporter.Write(result, file)
}

// severityRank orders severities for report sorting, most severe first
var severityRank = map[string]int{
	types.SeverityCritical: 0,
	types.SeverityHigh:     1,
	types.SeverityMedium:   2,
	types.SeverityLow:      3,
}

// SortFindingsBySeverity sorts findings in place, critical first. Ties
// keep a stable order by category then URL.
func SortFindingsBySeverity(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri, ok := severityRank[findings[i].Severity]
		if !ok {
			ri = len(severityRank)
		}
		rj, ok := severityRank[findings[j].Severity]
		if !ok {
			rj = len(severityRank)
		}
		if ri != rj {
			return ri < rj
		}
		if findings[i].Category != findings[j].Category {
			return findings[i].Category < findings[j].Category
		}
		return findings[i].URL < findings[j].URL
	})
}

// SeverityIcon returns an icon for severity
func SeverityIcon(severity string) string {
	switch severity {
	case types.SeverityCritical:
		return "[!!!]"
	case types.SeverityHigh:
		return "[!!]"
	case types.SeverityMedium:
		return "[!]"
	case types.SeverityLow:
		return "[.]"
	default:
		return "[-]"
	}
}

// TruncateString truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
