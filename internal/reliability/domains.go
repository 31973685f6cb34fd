package reliability

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robertschaub/factharbor/internal/model"
)

// DomainOf extracts the normalized domain from a URL: lowercase host, port
// and leading "www." stripped.
func DomainOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", fmt.Errorf("no host in url %q", rawURL)
	}

	host = strings.TrimPrefix(host, "www.")
	return host, nil
}

// ImportanceFilter decides which cache-miss domains are worth an external
// evaluation. Known low-value platforms (user-generated content hosts) and
// throwaway top-level domains are skipped and recorded as unknown so repeat
// lookups never re-trigger evaluation.
type ImportanceFilter struct {
	lowValue map[string]bool
	tlds     map[string]bool
}

// NewImportanceFilter builds a filter from configuration
func NewImportanceFilter(cfg model.ReliabilityConfig) *ImportanceFilter {
	f := &ImportanceFilter{
		lowValue: make(map[string]bool, len(cfg.LowValuePlatforms)),
		tlds:     make(map[string]bool, len(cfg.ThrowawayTLDs)),
	}
	for _, d := range cfg.LowValuePlatforms {
		f.lowValue[strings.ToLower(d)] = true
	}
	for _, t := range cfg.ThrowawayTLDs {
		f.tlds[strings.ToLower(strings.TrimPrefix(t, "."))] = true
	}
	return f
}

// Important reports whether the domain merits an external evaluation.
// Subdomains of a low-value platform count as the platform.
func (f *ImportanceFilter) Important(domain string) bool {
	domain = strings.ToLower(domain)

	for d := domain; d != ""; {
		if f.lowValue[d] {
			return false
		}
		idx := strings.Index(d, ".")
		if idx < 0 {
			break
		}
		d = d[idx+1:]
	}

	if idx := strings.LastIndex(domain, "."); idx >= 0 {
		if f.tlds[domain[idx+1:]] {
			return false
		}
	}

	return true
}
