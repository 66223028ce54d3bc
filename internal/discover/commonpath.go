package discover

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/urlutil"
)

var commonPathExts = []string{"svg", "png", "jpg", "jpeg", "webp"}

func commonPathRoots() []string {
	roots := make([]string, 0, len(commonPathExts))
	for _, ext := range commonPathExts {
		roots = append(roots, "/logo."+ext)
	}
	return roots
}

var commonPathPrefixes = []string{"/assets/logo", "/static/logo"}
var commonExtraPaths = map[string]bool{"/favicon.svg": true}

// extractCommonPaths scans every attribute value in the document for paths
// matching the common logo-asset patterns and, for each matched path, also
// synthesizes its absolute URL against the base URL, per spec.md §4.B.5.
func extractCommonPaths(doc *goquery.Document, baseURL string) ([]model.Candidate, error) {
	var results []model.Candidate
	emitted := make(map[string]bool)
	matchedPaths := make(map[string]bool)

	for _, value := range collectAttributeURLs(doc) {
		if !matchesCommonPath(value) {
			continue
		}
		if parsed, err := url.Parse(value); err == nil {
			matchedPaths[strings.ToLower(parsed.Path)] = true
		}
		absolute, ok := resolveAndValidate(value, baseURL)
		if !ok || emitted[absolute] {
			continue
		}
		emitted[absolute] = true
		ctx := model.CommonPathContext{DetectedFrom: "attribute", Value: value}
		results = append(results, buildCandidate(absolute, model.SourceCommonPath, ctx))
	}

	for _, generated := range generateCommonPaths(baseURL) {
		if emitted[generated] {
			continue
		}
		path := generated
		if parsed, err := url.Parse(generated); err == nil {
			path = parsed.Path
		}
		if !matchedPaths[strings.ToLower(path)] {
			continue
		}
		emitted[generated] = true
		ctx := model.CommonPathContext{DetectedFrom: "heuristic", Value: path}
		results = append(results, buildCandidate(generated, model.SourceCommonPath, ctx))
	}

	return results, nil
}

// extractCSSBackgroundsStub is deliberately a no-op, reserved for a future
// rendered-DOM pass, per spec.md §4.B.6.
func extractCSSBackgroundsStub(_ *goquery.Document, _ string) ([]model.Candidate, error) {
	return nil, nil
}

func collectAttributeURLs(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var values []string
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range sel.Nodes[0].Attr {
			if attr.Val == "" || seen[attr.Val] {
				continue
			}
			seen[attr.Val] = true
			values = append(values, attr.Val)
		}
	})
	return values
}

func matchesCommonPath(value string) bool {
	path := value
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(path)
	if parsed, err := url.Parse(value); err == nil && parsed.Path != "" {
		path = strings.ToLower(parsed.Path)
		if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
	}
	if path == "" {
		return false
	}
	if commonExtraPaths[path] {
		return true
	}
	for _, root := range commonPathRoots() {
		if path == root {
			return true
		}
	}
	for _, prefix := range commonPathPrefixes {
		for _, ext := range commonPathExts {
			if path == prefix+"."+ext {
				return true
			}
		}
	}
	return false
}

func generateCommonPaths(baseURL string) []string {
	var out []string
	emitted := make(map[string]bool)

	emit := func(raw string) {
		absolute, ok := urlutil.Resolve(raw, baseURL)
		if !ok || emitted[absolute] {
			return
		}
		emitted[absolute] = true
		out = append(out, absolute)
	}

	for _, root := range commonPathRoots() {
		emit(root)
	}
	for _, prefix := range commonPathPrefixes {
		for _, ext := range commonPathExts {
			emit(prefix + "." + ext)
		}
	}
	emit("/favicon.svg")

	return out
}
