// Package detector classifies HTTP responses against vulnerability
// heuristics, turning test case outcomes into findings.
package detector

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// Finding categories
const (
	CategoryXSS              = "xss"
	CategorySQLi             = "sqli"
	CategoryCommandInjection = "command_injection"
	CategoryInfoDisclosure   = "info_disclosure"
	CategoryError            = "error"
	CategoryAnomaly          = "anomaly"
)

// slowResponseThreshold marks responses slow enough to count as anomalous.
const slowResponseThreshold = 10.0 // seconds

// evidenceMargin is the context kept on each side of a reflected payload.
const evidenceMargin = 100

// anomalyStatusCodes are the server error statuses treated as anomalies.
var anomalyStatusCodes = map[int]bool{
	500: true, 502: true, 503: true, 504: true,
}

// sqliKeywords are database error signatures checked against lowercased
// response bodies.
var sqliKeywords = []string{
	"syntax error", "mysql", "ora-00933", "postgres", "sqlstate",
	"sql syntax", "database error", "sql error", "query failed",
	"mysql_fetch", "postgresql", "oracle", "sqlite", "mssql",
	"sql server", "access denied", "invalid query", "sql exception",
	"database connection", "sql command", "sqlite3", "mysqli",
	"pg_query", "oci_parse", "sqlite_error", "mssql_query",
}

// dbEngineTokens are engine-specific error tokens that escalate a SQL
// injection finding to critical.
var dbEngineTokens = []string{
	"sqlstate", "ora-00933", "mysql_fetch", "mysqli", "pg_query",
	"oci_parse", "sqlite_error", "mssql_query",
}

// tautologyPayloads are boolean tautologies whose verbatim reflection
// indicates the input reached a query context.
var tautologyPayloads = []string{
	`' or '1'='1`,
	`" or "1"="1`,
	` or 1=1`,
}

// xssPatterns match injected script or markup in a response body.
var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)<img[^>]*onerror[^>]*>`),
	regexp.MustCompile(`(?i)<svg[^>]*onload[^>]*>`),
	regexp.MustCompile(`(?i)<iframe[^>]*src[^>]*javascript:`),
	regexp.MustCompile(`(?i)<body[^>]*onload[^>]*>`),
	regexp.MustCompile(`(?i)<input[^>]*onfocus[^>]*>`),
	regexp.MustCompile(`(?i)<select[^>]*onfocus[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)onclick\s*=`),
	regexp.MustCompile(`(?i)onmouseover\s*=`),
	regexp.MustCompile(`(?i)onerror\s*=`),
	regexp.MustCompile(`(?i)onload\s*=`),
}

// xssIndicators decide whether a payload itself is script-like, gating the
// reflection check.
var xssIndicators = []string{
	"<script", "<img", "<svg", "<iframe", "<body", "<input", "<select",
	"javascript:", "onclick", "onmouseover", "onerror", "onload", "onfocus",
}

// cmdSignatures are shell artifacts indicating command execution.
var cmdSignatures = []string{
	"command not found",
	"permission denied",
}

var (
	uidPattern      = regexp.MustCompile(`\buid=\d+`)
	shPromptPattern = regexp.MustCompile(`sh: \d+:`)
)

// stackTracePattern matches common stack trace formats (Java, Python,
// Node, PHP).
var stackTracePattern = regexp.MustCompile(`(?i)(at\s+[\w.$]+\([\w]+\.java:\d+\)|File\s+"[^"]*",\s+line\s+\d+|Traceback\s+\(most recent call last\)|at\s+[\w._]+\s+\(.*:\d+:\d+\)|Stack trace:)`)

// serverProducts are web and application server names whose disclosure in
// the Server header, combined with an error body, suggests information
// leakage.
var serverProducts = []string{
	"nginx", "apache", "iis", "tomcat", "jetty", "express",
	"gunicorn", "werkzeug", "uvicorn", "php",
}

// errorKeywords flag generic error text in a response body.
var errorKeywords = []string{
	"error", "exception", "warning", "fatal", "critical",
	"failed", "failure", "invalid", "unauthorized", "forbidden",
	"not found", "internal server error", "bad request",
	"service unavailable", "timeout", "connection refused",
}

// Classifier evaluates responses against the rule tables above. It holds
// no mutable state; a single instance is safe for concurrent use.
type Classifier struct {
	maxEvidence int
}

// NewClassifier creates a classifier. maxEvidence bounds evidence snippet
// length; zero or negative falls back to 500.
func NewClassifier(maxEvidence int) *Classifier {
	if maxEvidence <= 0 {
		maxEvidence = 500
	}
	return &Classifier{maxEvidence: maxEvidence}
}

// Classify evaluates one response against the heuristics in strict
// priority order and returns the first matching finding, or nil. A
// response without a body never produces a finding; classification is
// total and never fails.
func (c *Classifier) Classify(tc types.TestCase, record *types.ResponseRecord) *types.Finding {
	if record == nil || record.Body == "" {
		return nil
	}

	body := strings.ToLower(record.Body)
	payload := strings.ToLower(tc.Payload)

	if c.detectXSS(body, payload) {
		return c.finding(tc, record, CategoryXSS, types.SeverityHigh)
	}

	if c.detectSQLi(body, payload) {
		severity := types.SeverityHigh
		if containsAny(body, dbEngineTokens) {
			severity = types.SeverityCritical
		}
		return c.finding(tc, record, CategorySQLi, severity)
	}

	if c.detectCommandExecution(body) {
		return c.finding(tc, record, CategoryCommandInjection, types.SeverityHigh)
	}

	if c.detectInfoDisclosure(body, record.Headers) {
		return c.finding(tc, record, CategoryInfoDisclosure, types.SeverityMedium)
	}

	if containsAny(body, errorKeywords) {
		return c.finding(tc, record, CategoryError, types.SeverityMedium)
	}

	if anomalyStatusCodes[record.Status] || record.Elapsed > slowResponseThreshold {
		return c.finding(tc, record, CategoryAnomaly, types.SeverityLow)
	}

	return nil
}

func (c *Classifier) detectXSS(body, payload string) bool {
	for _, pattern := range xssPatterns {
		if pattern.MatchString(body) {
			return true
		}
	}

	// Reflection only counts when the payload itself is script-like,
	// otherwise benign echoes would flood the report.
	if payload != "" && containsAny(payload, xssIndicators) {
		return strings.Contains(body, payload)
	}

	return false
}

func (c *Classifier) detectSQLi(body, payload string) bool {
	if containsAny(body, sqliKeywords) {
		return true
	}

	for _, tautology := range tautologyPayloads {
		if strings.Contains(payload, tautology) && strings.Contains(body, payload) {
			return true
		}
	}

	return false
}

func (c *Classifier) detectCommandExecution(body string) bool {
	if containsAny(body, cmdSignatures) {
		return true
	}
	return uidPattern.MatchString(body) || shPromptPattern.MatchString(body)
}

func (c *Classifier) detectInfoDisclosure(body string, headers map[string]string) bool {
	if stackTracePattern.MatchString(body) {
		return true
	}

	server := strings.ToLower(headerValue(headers, "Server"))
	if server != "" && containsAny(server, serverProducts) && containsAny(body, errorKeywords) {
		return true
	}

	return false
}

func (c *Classifier) finding(tc types.TestCase, record *types.ResponseRecord, category, severity string) *types.Finding {
	id := tc.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &types.Finding{
		ID:        id,
		Category:  category,
		Severity:  severity,
		URL:       tc.URL,
		Param:     tc.Param,
		Method:    tc.Method,
		Payload:   tc.Payload,
		Status:    record.Status,
		Evidence:  c.extractEvidence(record.Body, tc.Payload),
		FinalURL:  record.FinalURL,
		Elapsed:   record.Elapsed,
		Timestamp: time.Now(),
	}
}

// extractEvidence returns a bounded snippet: a window around the first
// payload reflection when present, otherwise a prefix of the body.
func (c *Classifier) extractEvidence(body, payload string) string {
	if body == "" {
		return ""
	}

	if payload != "" {
		if idx := strings.Index(strings.ToLower(body), strings.ToLower(payload)); idx >= 0 {
			start := idx - evidenceMargin
			if start < 0 {
				start = 0
			}
			end := idx + len(payload) + evidenceMargin
			if end > len(body) {
				end = len(body)
			}
			return truncateEvidence(body[start:end], c.maxEvidence)
		}
	}

	return truncateEvidence(body, c.maxEvidence)
}

func truncateEvidence(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

func headerValue(headers map[string]string, name string) string {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}
