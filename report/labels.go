package report

import (
	"regexp"
	"strings"
)

var (
	schemeRe = regexp.MustCompile(`^https?://`)
	tldRe    = regexp.MustCompile(`(?i)\.(com|org|net|fr|uk|de|jp|cn|br|ca)$`)
)

// PrettySite strips the scheme and a leading "www." for display. The empty
// site renders as an em dash. Never use the result as a key.
func PrettySite(site string) string {
	if site == "" {
		return "—"
	}
	return strings.TrimPrefix(schemeRe.ReplaceAllString(site, ""), "www.")
}

// CleanDomain is the short bar-chart label: host only, one common TLD removed.
func CleanDomain(site string) string {
	if site == "" {
		return ""
	}
	host := strings.TrimPrefix(schemeRe.ReplaceAllString(site, ""), "www.")
	host, _, _ = strings.Cut(host, "/")
	return tldRe.ReplaceAllString(host, "")
}
