package reporter

import (
	"encoding/json"
	"io"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// JSONReporter generates JSON reports
type JSONReporter struct {
	options ReportOptions
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(options ReportOptions) *JSONReporter {
	return &JSONReporter{options: options}
}

// Format returns the format name
func (r *JSONReporter) Format() string {
	return "json"
}

// Extension returns the file extension
func (r *JSONReporter) Extension() string {
	return "json"
}

// Generate generates a JSON report
func (r *JSONReporter) Generate(result *types.ScanResult) ([]byte, error) {
	SortFindingsBySeverity(result.Findings)

	if r.options.IncludeConfig {
		return json.MarshalIndent(result, "", "  ")
	}

	// Drop the config section without mutating the caller's result
	trimmed := *result
	trimmed.Config = nil
	return json.MarshalIndent(&trimmed, "", "  ")
}

// Write writes the JSON report to a writer
func (r *JSONReporter) Write(result *types.ScanResult, w io.Writer) error {
	data, err := r.Generate(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
