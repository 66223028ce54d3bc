package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ashish-patro/logo-grouper/internal/model"
)

// extractMetaSocialImages handles og:image / twitter:image(:src) meta tags,
// per spec.md §4.B.3.
func extractMetaSocialImages(doc *goquery.Document, baseURL string) ([]model.Candidate, error) {
	var results []model.Candidate

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		keyRaw, exists := sel.Attr("property")
		if !exists {
			keyRaw, exists = sel.Attr("name")
		}
		if !exists {
			return
		}
		key := strings.ToLower(keyRaw)

		var source model.Source
		switch key {
		case "og:image":
			source = model.SourceOGImage
		case "twitter:image", "twitter:image:src":
			source = model.SourceTwitterImage
		default:
			return
		}

		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		absolute, ok := resolveAndValidate(content, baseURL)
		if !ok {
			return
		}

		ctx := model.MetaContext{Key: key, Content: content}
		results = append(results, buildCandidate(absolute, source, ctx))
	})

	return results, nil
}
