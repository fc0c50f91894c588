// Package types provides core data structures for Perlustro
package types

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// HasErrors returns true if there are any validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ConfigValidator validates configuration settings
type ConfigValidator struct {
	errors ValidationErrors
}

// NewConfigValidator creates a new config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate performs comprehensive validation of the config. Validation runs
// at the boundary, before any network activity begins.
func (v *ConfigValidator) Validate(config *Config) ValidationErrors {
	v.errors = nil

	v.validateCrawlSettings(config.Crawl)
	v.validateScanSettings(config.Scan)
	v.validateHTTPSettings(config.HTTP)
	v.validatePayloadSettings(config.Payloads)
	v.validateOutputSettings(config.Output)

	return v.errors
}

func (v *ConfigValidator) addError(field, message string, value interface{}) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

func (v *ConfigValidator) validateCrawlSettings(c CrawlSettings) {
	if c.MaxDepth < 0 {
		v.addError("crawl.max_depth", "cannot be negative", c.MaxDepth)
	}
	if c.Concurrency < 1 {
		v.addError("crawl.concurrency", "must be at least 1", c.Concurrency)
	}
	if c.Concurrency > 100 {
		v.addError("crawl.concurrency", "should not exceed 100 to avoid overwhelming targets", c.Concurrency)
	}
	if c.Delay < 0 {
		v.addError("crawl.delay", "cannot be negative", c.Delay)
	}
	if c.Timeout < 1*time.Second {
		v.addError("crawl.timeout", "should be at least 1 second", c.Timeout)
	}
	if c.MaxRetries < 0 {
		v.addError("crawl.max_retries", "cannot be negative", c.MaxRetries)
	}
	if c.MaxRetries > 10 {
		v.addError("crawl.max_retries", "excessive retries may slow down crawls", c.MaxRetries)
	}
}

func (v *ConfigValidator) validateScanSettings(s ScanSettings) {
	if s.Concurrency < 1 {
		v.addError("scan.concurrency", "must be at least 1", s.Concurrency)
	}
	if s.Concurrency > 100 {
		v.addError("scan.concurrency", "should not exceed 100 to avoid overwhelming targets", s.Concurrency)
	}

	if s.RateLimit < 0 {
		v.addError("scan.rate_limit", "cannot be negative", s.RateLimit)
	}
	if s.RateLimit > 1000 {
		v.addError("scan.rate_limit", "extremely high rate limits may cause issues", s.RateLimit)
	}

	if s.Timeout < 1*time.Second {
		v.addError("scan.timeout", "should be at least 1 second", s.Timeout)
	}
	if s.Timeout > 5*time.Minute {
		v.addError("scan.timeout", "timeout exceeds 5 minutes which may cause issues", s.Timeout)
	}

	if s.MaxRedirects < 0 {
		v.addError("scan.max_redirects", "cannot be negative", s.MaxRedirects)
	}
}

func (v *ConfigValidator) validateHTTPSettings(h HTTPSettings) {
	if h.ProxyURL != "" {
		if _, err := url.Parse(h.ProxyURL); err != nil {
			v.addError("http.proxy_url", "invalid URL format", h.ProxyURL)
		}
	}

	if h.UserAgent == "" {
		v.addError("http.user_agent", "should not be empty", h.UserAgent)
	}
}

func (v *ConfigValidator) validatePayloadSettings(p PayloadSettings) {
	validProfiles := map[string]bool{
		ProfileSafe: true, ProfileLab: true, ProfileAll: true,
	}
	if !validProfiles[p.Profile] {
		v.addError("payloads.profile", "unknown profile (use safe, lab, or all)", p.Profile)
	}

	if p.PerField < 1 {
		v.addError("payloads.per_field", "must be at least 1", p.PerField)
	}

	if p.MaxTests < 0 {
		v.addError("payloads.max_tests", "cannot be negative", p.MaxTests)
	}

	if p.CustomPayloads != "" {
		if _, err := os.Stat(p.CustomPayloads); os.IsNotExist(err) {
			v.addError("payloads.custom_payloads", "file does not exist", p.CustomPayloads)
		}
	}
}

func (v *ConfigValidator) validateOutputSettings(o OutputSettings) {
	validFormats := map[string]bool{
		"json": true, "html": true, "text": true, "txt": true,
	}

	if o.Format != "" && !validFormats[o.Format] {
		v.addError("output.format", "unknown format", o.Format)
	}

	if o.MaxEvidence < 0 {
		v.addError("output.max_evidence", "cannot be negative", o.MaxEvidence)
	}
}

// ValidateConfig is a convenience function to validate a config
func ValidateConfig(config *Config) error {
	validator := NewConfigValidator()
	errors := validator.Validate(config)
	if errors.HasErrors() {
		return errors
	}
	return nil
}

// ValidateURL validates a target URL string
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme == "" {
		return fmt.Errorf("URL must have a scheme (http or https)")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
