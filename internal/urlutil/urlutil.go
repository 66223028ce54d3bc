// Package urlutil resolves relative URLs against a base URL and derives
// filesystem-safe host labels, generalizing the teacher's
// LogoExtractor.resolveURL into a standalone, base-URL-aware package (§4.A).
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

var unsafeHostChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Resolve joins raw against base, accepting data: URIs unchanged and
// rejecting any resolved URL whose scheme is present and not http/https.
// It returns ("", false) when raw cannot be turned into a usable URL.
func Resolve(raw, base string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "data:") {
		return raw, true
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	resolved := baseURL.ResolveReference(ref)
	if resolved.Scheme != "" && resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}

// CoerceScheme ensures raw has an http(s) scheme, defaulting to https when
// none is present, per spec.md §6's input-file contract.
func CoerceScheme(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}
	if strings.Contains(trimmed, "://") {
		return trimmed
	}
	return "https://" + trimmed
}

// HostLabel derives a filesystem-safe label for a URL: its netloc (or path
// if there is none), with any character outside [A-Za-z0-9._-] replaced by
// '_', leading/trailing '._-' stripped, falling back to "site" if empty.
func HostLabel(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	var label string
	if err == nil && parsed.Host != "" {
		label = parsed.Host
	} else if err == nil {
		label = parsed.Path
	} else {
		label = rawURL
	}

	label = unsafeHostChars.ReplaceAllString(label, "_")
	label = strings.Trim(label, "._-")
	if label == "" {
		return "site"
	}
	return label
}
