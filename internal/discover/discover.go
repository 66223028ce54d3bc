// Package discover parses an HTML document and enumerates logo candidates
// using six fixed-order extractors, generalizing the teacher's
// LogoExtractor (which only looked at meta/link tags and a static
// fallback list) into the full heuristic set of spec.md §4.B.
package discover

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/urlutil"
)

// confidence scores per source, fixed by spec.md §4.B.
var confidenceScores = map[model.Source]float64{
	model.SourceOrgLogo:      0.95,
	model.SourceAppleTouch:   0.70,
	model.SourceIcon:         0.55,
	model.SourceOGImage:      0.60,
	model.SourceTwitterImage: 0.60,
	model.SourceHeaderImg:    0.80,
	model.SourceCommonPath:   0.65,
	model.SourceCSSBg:        0.60,
}

var (
	logoFilenameExts = map[string]bool{
		".svg": true, ".png": true, ".jpg": true, ".jpeg": true,
		".webp": true, ".ico": true, ".gif": true,
	}
	unlikelyFilenamePattern = regexp.MustCompile(`(?i)hero|banner|placeholder|header|cover|background|slider`)
	logoKeywords            = regexp.MustCompile(`(?i)logo|brand|mark`)
)

// extractor is a single extractor function; its errors are swallowed by
// the orchestrator (logged, never fatal), per spec.md §4.B / §9's
// Result<Candidates, ExtractorError> redesign.
type extractor func(doc *goquery.Document, baseURL string) ([]model.Candidate, error)

// Discover runs all six extractors in fixed order over html, deduplicating
// by absolute src across extractors and preserving first-seen order.
func Discover(html, baseURL string, logger *zap.Logger) []model.Candidate {
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Debug("discover: failed to parse HTML", zap.Error(err))
		return nil
	}

	extractors := []struct {
		name string
		fn   extractor
	}{
		{"jsonld", extractJSONLDLogos},
		{"link_icons", extractLinkIcons},
		{"meta_social", extractMetaSocialImages},
		{"logo_images", extractLogoImages},
		{"common_paths", extractCommonPaths},
		{"css_backgrounds", extractCSSBackgroundsStub},
	}

	var results []model.Candidate
	seen := make(map[string]bool)

	for _, e := range extractors {
		candidates, err := safeRun(e.fn, doc, baseURL)
		if err != nil {
			logger.Debug("discover: extractor failed", zap.String("extractor", e.name), zap.Error(err))
			continue
		}
		for _, c := range candidates {
			if c.Src == "" || seen[c.Src] {
				continue
			}
			seen[c.Src] = true
			results = append(results, c)
		}
	}

	return results
}

// safeRun recovers from a panicking extractor, mapping it onto the same
// error-returning contract as a normal extractor failure.
func safeRun(fn extractor, doc *goquery.Document, baseURL string) (candidates []model.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			err = panicError{r}
		}
	}()
	return fn(doc, baseURL)
}

type panicError struct{ v any }

func (p panicError) Error() string { return "extractor panicked" }

// IsPlausibleLogoFilename reports whether path resembles a likely logo
// asset filename, per spec.md §4.B's plausible-filename filter.
func IsPlausibleLogoFilename(path string) bool {
	if path == "" {
		return true
	}
	sanitized := path
	if i := strings.IndexAny(sanitized, "?#"); i >= 0 {
		sanitized = sanitized[:i]
	}
	if sanitized == "" {
		return true
	}
	filename := sanitized
	if i := strings.LastIndex(sanitized, "/"); i >= 0 {
		filename = sanitized[i+1:]
	}
	if filename == "" {
		return true
	}
	lower := strings.ToLower(filename)

	if unlikelyFilenamePattern.MatchString(lower) {
		return false
	}
	if i := strings.LastIndex(lower, "."); i >= 0 {
		ext := lower[i:]
		if !logoFilenameExts[ext] {
			return false
		}
	}
	if logoKeywords.MatchString(lower) {
		return true
	}
	for ext := range logoFilenameExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// resolveAndValidate resolves raw against baseURL and applies the
// scheme/filename validity checks common to every extractor.
func resolveAndValidate(raw, baseURL string) (string, bool) {
	absolute, ok := urlutil.Resolve(raw, baseURL)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(absolute, "data:") {
		return absolute, true
	}
	path := absolute
	if parsed, err := url.Parse(absolute); err == nil {
		path = parsed.Path
	}
	if !IsPlausibleLogoFilename(path) {
		return "", false
	}
	return absolute, true
}

func buildCandidate(src string, source model.Source, ctx model.Context) model.Candidate {
	return model.Candidate{
		Src:        src,
		Source:     source,
		Confidence: confidenceScores[source],
		Context:    ctx,
	}
}
