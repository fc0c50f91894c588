package types

import (
	"time"
)

// Finding represents a vulnerability indicator observed for a test case
type Finding struct {
	ID        string    `json:"id" yaml:"id"`
	Category  string    `json:"category" yaml:"category"`
	Severity  string    `json:"severity" yaml:"severity"` // critical, high, medium, low
	URL       string    `json:"url" yaml:"url"`
	Param     string    `json:"param,omitempty" yaml:"param,omitempty"`
	Method    string    `json:"method" yaml:"method"`
	Payload   string    `json:"payload,omitempty" yaml:"payload,omitempty"`
	Status    int       `json:"status" yaml:"status"`
	Evidence  string    `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	FinalURL  string    `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	Elapsed   float64   `json:"response_time" yaml:"response_time"` // seconds
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// ResponseRecord is the normalized outcome of one submitted test case.
// A transport failure yields Status 0 with the error captured; it is a
// valid outcome, never a fatal one. Records live only long enough to be
// classified.
type ResponseRecord struct {
	Status   int
	Headers  map[string]string
	Body     string
	FinalURL string
	Elapsed  float64 // seconds
	Err      error
}

// Severity constants
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// ScanResult contains the complete scan results
type ScanResult struct {
	ScanID    string        `json:"scan_id" yaml:"scan_id"`
	Target    string        `json:"target" yaml:"target"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Findings  []Finding     `json:"findings" yaml:"findings"`
	Summary   *ScanSummary  `json:"summary" yaml:"summary"`
	Pages     int           `json:"pages_discovered" yaml:"pages_discovered"`
	Requests  int           `json:"requests_made" yaml:"requests_made"`
	Config    *ScanInfo     `json:"config,omitempty" yaml:"config,omitempty"`
}

// ScanSummary provides statistics about the scan
type ScanSummary struct {
	TotalFindings    int            `json:"total_findings" yaml:"total_findings"`
	BySeverity       map[string]int `json:"by_severity" yaml:"by_severity"`
	ByCategory       map[string]int `json:"by_category" yaml:"by_category"`
	CriticalFindings int            `json:"critical_findings" yaml:"critical_findings"`
	HighFindings     int            `json:"high_findings" yaml:"high_findings"`
	MediumFindings   int            `json:"medium_findings" yaml:"medium_findings"`
	LowFindings      int            `json:"low_findings" yaml:"low_findings"`
}

// ScanInfo captures the configuration used for the scan
type ScanInfo struct {
	Target      string  `json:"target" yaml:"target"`
	MaxDepth    int     `json:"max_depth" yaml:"max_depth"`
	Concurrency int     `json:"concurrency" yaml:"concurrency"`
	RateLimit   float64 `json:"rate_limit" yaml:"rate_limit"`
	Timeout     int     `json:"timeout" yaml:"timeout"`
	Profile     string  `json:"profile" yaml:"profile"`
	MaxTests    int     `json:"max_tests" yaml:"max_tests"`
	LabMode     bool    `json:"lab_mode" yaml:"lab_mode"`
}

// NewScanSummary creates a summary from findings
func NewScanSummary(findings []Finding) *ScanSummary {
	summary := &ScanSummary{
		TotalFindings: len(findings),
		BySeverity:    make(map[string]int),
		ByCategory:    make(map[string]int),
	}

	for _, f := range findings {
		summary.BySeverity[f.Severity]++
		summary.ByCategory[f.Category]++

		switch f.Severity {
		case SeverityCritical:
			summary.CriticalFindings++
		case SeverityHigh:
			summary.HighFindings++
		case SeverityMedium:
			summary.MediumFindings++
		case SeverityLow:
			summary.LowFindings++
		}
	}

	return summary
}
