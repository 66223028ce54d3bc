package discover

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ashish-patro/logo-grouper/internal/model"
)

// extractJSONLDLogos walks every application/ld+json script block, recursing
// into nested objects/arrays, and yields a candidate for every "logo" field
// found, per spec.md §4.B.1.
func extractJSONLDLogos(doc *goquery.Document, baseURL string) ([]model.Candidate, error) {
	var results []model.Candidate

	doc.Find(`script[type]`).Each(func(index int, sel *goquery.Selection) {
		typ, _ := sel.Attr("type")
		if !strings.Contains(strings.ToLower(typ), "ld+json") {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}

		var data any
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			return
		}

		results = append(results, collectJSONLDLogoCandidates(data, baseURL, index, nil)...)
	})

	return results, nil
}

func collectJSONLDLogoCandidates(data any, baseURL string, scriptIndex int, path []string) []model.Candidate {
	var results []model.Candidate

	switch node := data.(type) {
	case map[string]any:
		if logos, ok := node["logo"]; ok {
			types := normalizeJSONLDTypes(node["@type"])
			for _, logoValue := range iterLogoValues(logos) {
				absolute, ok := resolveAndValidate(logoValue, baseURL)
				if !ok {
					continue
				}
				ctx := model.JSONLDContext{
					JSONPath:    strings.Join(append(append([]string{}, path...), "logo"), "/"),
					Types:       types,
					ScriptIndex: scriptIndex,
				}
				results = append(results, buildCandidate(absolute, model.SourceOrgLogo, ctx))
			}
		}
		for key, value := range node {
			results = append(results, collectJSONLDLogoCandidates(value, baseURL, scriptIndex, append(path, key))...)
		}
	case []any:
		for i, item := range node {
			results = append(results, collectJSONLDLogoCandidates(item, baseURL, scriptIndex, append(path, strconv.Itoa(i)))...)
		}
	}

	return results
}

func normalizeJSONLDTypes(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		var types []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	default:
		return nil
	}
}

func iterLogoValues(value any) []string {
	var out []string
	switch v := value.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	case map[string]any:
		for _, key := range []string{"@id", "url", "contentUrl", "href"} {
			if s, ok := v[key].(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
	case []any:
		for _, item := range v {
			out = append(out, iterLogoValues(item)...)
		}
	}
	return out
}
