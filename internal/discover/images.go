package discover

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ashish-patro/logo-grouper/internal/model"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// extractLogoImages scans every <img> tag, joining id/alt/aria-label/
// data-testid/class tokens and matching against logo|brand|mark, per
// spec.md §4.B.4.
func extractLogoImages(doc *goquery.Document, baseURL string) ([]model.Candidate, error) {
	var results []model.Candidate

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		descriptors := gatherImgDescriptors(sel)
		if descriptors == "" || !logoKeywords.MatchString(descriptors) {
			return
		}

		rawSrc, ok := resolveImgSrc(sel)
		if !ok {
			return
		}
		absolute, ok := resolveAndValidate(rawSrc, baseURL)
		if !ok {
			return
		}

		inHeader := hasHeaderAncestor(sel)
		confidence := confidenceScores[model.SourceHeaderImg]
		if !inHeader {
			confidence -= 0.05
			if confidence < 0 {
				confidence = 0
			}
		}

		id, _ := sel.Attr("id")
		class, _ := sel.Attr("class")
		alt, _ := sel.Attr("alt")

		cand := model.Candidate{
			Src:        absolute,
			Source:     model.SourceHeaderImg,
			Confidence: confidence,
			Context: model.ImgContext{
				ID: id, Class: class, Alt: alt, InHeader: inHeader,
			},
		}
		results = append(results, cand)
	})

	return results, nil
}

func gatherImgDescriptors(sel *goquery.Selection) string {
	var parts []string
	for _, attr := range []string{"id", "alt", "aria-label", "data-testid"} {
		if v, ok := sel.Attr(attr); ok {
			parts = append(parts, v)
		}
	}
	if class, ok := sel.Attr("class"); ok {
		parts = append(parts, class)
	}
	joined := strings.Join(parts, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(joined, " "))
}

func resolveImgSrc(sel *goquery.Selection) (string, bool) {
	for _, attr := range []string{"src", "data-src", "data-lazy-src", "data-original", "data-hires"} {
		if v, ok := sel.Attr(attr); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed, true
			}
		}
	}
	srcset, ok := sel.Attr("srcset")
	if !ok {
		srcset, ok = sel.Attr("data-srcset")
	}
	if ok {
		first := strings.TrimSpace(strings.Split(srcset, ",")[0])
		if first != "" {
			urlPart := strings.Fields(first)
			if len(urlPart) > 0 && urlPart[0] != "" {
				return urlPart[0], true
			}
		}
	}
	return "", false
}

func hasHeaderAncestor(sel *goquery.Selection) bool {
	found := false
	sel.ParentsFiltered("header, nav").Each(func(_ int, _ *goquery.Selection) {
		found = true
	})
	return found
}
