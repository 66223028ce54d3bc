// Package report writes the pipeline's output artifacts: groups.json,
// pairs_sample.csv, metrics.json, a features CSV dump, an HTML debug
// preview, and a short console summary, per spec.md §4.L/§6. The HTML
// preview is adapted from the teacher's
// internal/output/html_generator.go, restyled around similarity groups
// instead of per-publisher logo lists.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ashish-patro/logo-grouper/internal/model"
)

// Metrics summarizes a single pipeline run, written to metrics.json and
// echoed to the console, per spec.md §4.L.
type Metrics struct {
	TotalSites      int           `json:"total_sites"`
	SitesWithLogos  int           `json:"sites_with_logos"`
	FailedSites     int           `json:"failed_sites"`
	EdgesLinked     int           `json:"edges_linked"`
	EdgesConfirmed  int           `json:"edges_confirmed"`
	GroupsFound     int           `json:"groups_found"`
	SingletonGroups int           `json:"singleton_groups"`
	Duration        time.Duration `json:"duration_ns"`
}

// GroupsDocument is the shape written to groups.json.
type GroupsDocument struct {
	Groups []model.Group `json:"groups"`
}

// WriteGroupsJSON writes the group assignments to path as indented JSON.
func WriteGroupsJSON(groups []model.Group, path string) error {
	doc := GroupsDocument{Groups: groups}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling groups: %w", err)
	}
	return writeFile(path, data)
}

// WriteMetricsJSON writes m to path as indented JSON.
func WriteMetricsJSON(m Metrics, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}
	return writeFile(path, data)
}

// maxSampledPairs caps pairs_sample.csv at the top-scoring 500 edges, per
// spec.md §4.L.
const maxSampledPairs = 500

// WritePairsSampleCSV writes the top maxSampledPairs edges (by descending
// score) to path, scores formatted to 6 decimal places.
func WritePairsSampleCSV(edges []model.Edge, path string) error {
	sorted := make([]model.Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].Left != sorted[j].Left {
			return sorted[i].Left < sorted[j].Left
		}
		return sorted[i].Right < sorted[j].Right
	})
	if len(sorted) > maxSampledPairs {
		sorted = sorted[:maxSampledPairs]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating pairs sample csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"left", "right", "score", "confirmed"}); err != nil {
		return err
	}
	for _, e := range sorted {
		row := []string{e.Left, e.Right, strconv.FormatFloat(e.Score, 'f', 6, 64), strconv.FormatBool(e.Confirmed)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteFeaturesCSV dumps every site's perceptual hashes and dominant
// hues to a "features.<table>"-style CSV, per spec.md §4.L.
func WriteFeaturesCSV(features []model.LogoFeatures, path string) error {
	sorted := make([]model.LogoFeatures, len(features))
	copy(sorted, features)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Website < sorted[j].Website })

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating features csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"website", "ahash", "phash", "dhash", "dominant_hues", "normalized_path"}); err != nil {
		return err
	}
	for _, f := range sorted {
		hues := make([]string, len(f.DominantHues))
		for i, h := range f.DominantHues {
			hues[i] = strconv.Itoa(h)
		}
		row := []string{
			f.Website,
			f.Perceptual.AHash,
			f.Perceptual.PHash,
			f.Perceptual.DHash,
			strings.Join(hues, "|"),
			f.NormalizedPath,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// AssetPath returns a collision-free path under dir for website, appending
// _2, _3, ... suffixes (before the extension) when a file already exists,
// per spec.md §6's asset-directory layout.
func AssetPath(dir, website, ext string) (string, error) {
	base := sanitizeWebsite(website)
	candidate := filepath.Join(dir, base+ext)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	for n := 2; n < 10000; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find a free asset path for %s after 9999 attempts", website)
}

func sanitizeWebsite(website string) string {
	replacer := strings.NewReplacer("/", "_", ":", "_", "?", "_", "#", "_")
	return replacer.Replace(website)
}

// PrintSummary writes a short, emoji-prefixed console summary in the
// teacher's console-output style.
func PrintSummary(m Metrics) {
	fmt.Printf("✅ Processed %d sites (%d with logos, %d failed)\n", m.TotalSites, m.SitesWithLogos, m.FailedSites)
	fmt.Printf("🔗 Found %d linked pairs (%d confirmed)\n", m.EdgesLinked, m.EdgesConfirmed)
	fmt.Printf("🗂️  Grouped into %d groups (%d singletons)\n", m.GroupsFound, m.SingletonGroups)
	fmt.Printf("⏱️  Completed in %s\n", m.Duration.Round(time.Millisecond))
	fmt.Println("📄 Reports written to the output directory")
}

// PreviewGroup is one group's rendering data for the HTML preview.
type PreviewGroup struct {
	GroupID string
	Members []PreviewMember
}

// PreviewMember is one site's rendering data within a group.
type PreviewMember struct {
	Website     string
	PreviewPath string
}

// PreviewReport is the template data for the HTML debug preview.
type PreviewReport struct {
	Title       string
	GeneratedAt time.Time
	TotalGroups int
	TotalSites  int
	Groups      []PreviewGroup
}

// WriteHTMLPreview renders an HTML debug page showing every group's
// member logos side by side, adapted from the teacher's
// html_generator.go template.
func WriteHTMLPreview(groups []model.Group, features map[string]model.LogoFeatures, path string) error {
	report := PreviewReport{
		Title:       "Logo Group Preview",
		GeneratedAt: time.Now(),
		TotalGroups: len(groups),
	}

	for _, g := range groups {
		pg := PreviewGroup{GroupID: g.GroupID}
		for _, member := range g.Members {
			preview := ""
			if f, ok := features[member]; ok {
				preview = f.PreviewPath
			}
			pg.Members = append(pg.Members, PreviewMember{Website: member, PreviewPath: preview})
			report.TotalSites++
		}
		report.Groups = append(report.Groups, pg)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating html preview: %w", err)
	}
	defer file.Close()

	tmpl := previewTemplate()
	return tmpl.Execute(file, report)
}

func previewTemplate() *template.Template {
	tmpl := `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 8px; text-align: center; }
        .group { background: white; margin: 20px 0; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); padding: 20px; }
        .group-title { font-weight: bold; margin-bottom: 10px; color: #333; }
        .members { display: flex; flex-wrap: wrap; gap: 15px; }
        .member { text-align: center; width: 120px; }
        .member img { max-width: 100px; max-height: 100px; background: #fff; border: 1px solid #eee; border-radius: 4px; }
        .member .label { font-size: 0.75em; color: #666; word-break: break-all; margin-top: 4px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🗂️ {{.Title}}</h1>
        <p>{{.TotalGroups}} groups, {{.TotalSites}} sites — generated {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}}</p>
    </div>
    {{range .Groups}}
    <div class="group">
        <div class="group-title">{{.GroupID}} ({{len .Members}} sites)</div>
        <div class="members">
            {{range .Members}}
            <div class="member">
                {{if .PreviewPath}}<img src="{{.PreviewPath}}" alt="{{.Website}}">{{else}}<div class="label">no preview</div>{{end}}
                <div class="label">{{.Website}}</div>
            </div>
            {{end}}
        </div>
    </div>
    {{end}}
</body>
</html>`
	return template.Must(template.New("preview").Parse(tmpl))
}
