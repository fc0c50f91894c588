// Package allowlist gates scanning behind an explicit target allowlist.
// Perlustro refuses to scan hosts that are neither allowlisted nor
// explicitly confirmed.
package allowlist

import (
	"bufio"
	"net/url"
	"os"
	"strings"
)

// ConfirmToken is the exact confirmation string required to scan a host
// outside the allowlist. It is deliberately awkward to type by accident.
const ConfirmToken = "I_HAVE_PERMISSION"

// Allowlist holds the set of domains the operator has pre-authorized.
type Allowlist struct {
	domains map[string]bool
}

// Load reads an allowlist file: one domain per line, blank lines and
// #-comments ignored, case-insensitive. A missing file yields an empty
// allowlist (every target then requires explicit confirmation), not an
// error.
func Load(path string) (*Allowlist, error) {
	a := &Allowlist{domains: make(map[string]bool)}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return a, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a.domains[strings.ToLower(line)] = true
	}

	return a, scanner.Err()
}

// Contains reports whether a domain is pre-authorized.
func (a *Allowlist) Contains(domain string) bool {
	return a.domains[strings.ToLower(domain)]
}

// Len returns the number of allowlisted domains.
func (a *Allowlist) Len() int {
	return len(a.domains)
}

// Check decides whether targetURL may be scanned. A target is allowed
// when its host (port stripped) is allowlisted, or when confirm carries
// the exact confirmation token.
func (a *Allowlist) Check(targetURL, confirm string) bool {
	domain := Domain(targetURL)
	if domain == "" {
		return false
	}

	if a.Contains(domain) {
		return true
	}

	return confirm == ConfirmToken
}

// Domain extracts the lowercased host of a URL with any port stripped.
// Returns "" for unparseable URLs.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
