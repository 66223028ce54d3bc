package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ashish-patro/logo-grouper/internal/model"
)

// extractLinkIcons classifies every <link rel="..."> tag, per spec.md
// §4.B.2.
func extractLinkIcons(doc *goquery.Document, baseURL string) ([]model.Candidate, error) {
	var results []model.Candidate

	doc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		relAttr, exists := sel.Attr("rel")
		if !exists {
			return
		}
		relValues := splitRel(relAttr)
		if len(relValues) == 0 {
			return
		}

		var source model.Source
		switch {
		case containsSubstr(relValues, "apple-touch-icon"):
			source = model.SourceAppleTouch
		case containsAny(relValues, func(v string) bool { return v == "icon" || strings.HasSuffix(v, "icon") }):
			source = model.SourceIcon
		case containsSubstr(relValues, "mask-icon"):
			source = model.SourceIcon
		default:
			return
		}

		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		absolute, ok := resolveAndValidate(href, baseURL)
		if !ok {
			return
		}

		sizes, _ := sel.Attr("sizes")
		typ, _ := sel.Attr("type")
		color, _ := sel.Attr("color")

		ctx := model.LinkIconContext{Rel: relValues, Sizes: sizes, Type: typ, Color: color}
		results = append(results, buildCandidate(absolute, source, ctx))
	})

	return results, nil
}

func splitRel(rel string) []string {
	fields := strings.Fields(rel)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

func containsSubstr(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(v, needle) {
			return true
		}
	}
	return false
}

func containsAny(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}
