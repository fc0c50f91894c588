package types

import (
	"time"
)

// Config represents the application configuration
type Config struct {
	// Crawl settings
	Crawl CrawlSettings `yaml:"crawl" mapstructure:"crawl"`

	// Scan (execution engine) settings
	Scan ScanSettings `yaml:"scan" mapstructure:"scan"`

	// HTTP settings
	HTTP HTTPSettings `yaml:"http" mapstructure:"http"`

	// Payload settings
	Payloads PayloadSettings `yaml:"payloads" mapstructure:"payloads"`

	// Output settings
	Output OutputSettings `yaml:"output" mapstructure:"output"`
}

// CrawlSettings holds crawler configuration
type CrawlSettings struct {
	MaxDepth    int           `yaml:"max_depth" mapstructure:"max_depth"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"`
	Delay       time.Duration `yaml:"delay" mapstructure:"delay"` // politeness delay after each fetch
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// ScanSettings holds execution engine configuration
type ScanSettings struct {
	Concurrency     int           `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit       float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	FollowRedirects bool          `yaml:"follow_redirects" mapstructure:"follow_redirects"`
	MaxRedirects    int           `yaml:"max_redirects" mapstructure:"max_redirects"`
	VerifySSL       bool          `yaml:"verify_ssl" mapstructure:"verify_ssl"`
}

// HTTPSettings holds HTTP client configuration
type HTTPSettings struct {
	ProxyURL  string            `yaml:"proxy_url" mapstructure:"proxy_url"`
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`
	UserAgent string            `yaml:"user_agent" mapstructure:"user_agent"`
	Accept    string            `yaml:"accept" mapstructure:"accept"`
}

// PayloadSettings holds payload selection configuration
type PayloadSettings struct {
	Profile        string `yaml:"profile" mapstructure:"profile"` // safe, lab, all
	PerField       int    `yaml:"per_field" mapstructure:"per_field"`
	MaxTests       int    `yaml:"max_tests" mapstructure:"max_tests"`
	IncludeLabOnly bool   `yaml:"include_lab_only" mapstructure:"include_lab_only"`
	CustomPayloads string `yaml:"custom_payloads" mapstructure:"custom_payloads"` // Path to custom payloads YAML
}

// OutputSettings holds output configuration
type OutputSettings struct {
	Format      string `yaml:"format" mapstructure:"format"` // json, text, html
	File        string `yaml:"file" mapstructure:"file"`
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
	Color       bool   `yaml:"color" mapstructure:"color"`
	MaxEvidence int    `yaml:"max_evidence" mapstructure:"max_evidence"`
}

// Payload profile constants
const (
	ProfileSafe = "safe"
	ProfileLab  = "lab"
	ProfileAll  = "all"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlSettings{
			MaxDepth:    2,
			Concurrency: 5,
			Delay:       200 * time.Millisecond,
			Timeout:     10 * time.Second,
			MaxRetries:  2,
		},
		Scan: ScanSettings{
			Concurrency:     5,
			RateLimit:       0,
			Timeout:         10 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    5,
			VerifySSL:       true,
		},
		HTTP: HTTPSettings{
			UserAgent: "Perlustro/1.0 (Security Scanner)",
			Accept:    "text/html,application/xhtml+xml",
			Headers:   make(map[string]string),
		},
		Payloads: PayloadSettings{
			Profile:        ProfileSafe,
			PerField:       2,
			MaxTests:       200,
			IncludeLabOnly: false,
		},
		Output: OutputSettings{
			Format:      "json",
			Verbose:     false,
			Color:       true,
			MaxEvidence: 500,
		},
	}
}
