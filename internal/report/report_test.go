package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ashish-patro/logo-grouper/internal/model"
)

func TestWriteGroupsJSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groups.json")
	groups := []model.Group{{GroupID: "a.com", Members: []string{"a.com", "b.com"}}}

	if err := WriteGroupsJSON(groups, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc GroupsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Groups) != 1 || doc.Groups[0].GroupID != "a.com" {
		t.Fatalf("unexpected round trip: %+v", doc)
	}
}

func TestWritePairsSampleCSVCapsAtTop500(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pairs_sample.csv")

	edges := make([]model.Edge, 600)
	for i := range edges {
		edges[i] = model.Edge{Left: "a.com", Right: "b.com", Score: float64(i) / 1000}
	}
	if err := WritePairsSampleCSV(edges, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	// header + 500 data rows
	if len(records) != 501 {
		t.Fatalf("expected 501 rows (header+500), got %d", len(records))
	}
	if records[1][2] != "0.599000" {
		t.Fatalf("expected the highest score first, got %q", records[1][2])
	}
}

func TestWriteFeaturesCSVSortedByWebsite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.csv")
	features := []model.LogoFeatures{
		{Website: "z.com", Perceptual: model.PerceptualHashes{PHash: "ff"}},
		{Website: "a.com", Perceptual: model.PerceptualHashes{PHash: "00"}},
	}
	if err := WriteFeaturesCSV(features, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	file, _ := os.Open(path)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if records[1][0] != "a.com" || records[2][0] != "z.com" {
		t.Fatalf("expected sorted order, got %v", records)
	}
}

func TestAssetPathCollisionSuffixing(t *testing.T) {
	dir := t.TempDir()

	first, err := AssetPath(dir, "example.com", ".png")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing stub: %v", err)
	}

	second, err := AssetPath(dir, "example.com", ".png")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second == first {
		t.Fatalf("expected a distinct path after collision, got %q twice", first)
	}
	if filepath.Base(second) != "example.com_2.png" {
		t.Fatalf("expected _2 suffix, got %q", filepath.Base(second))
	}
}

func TestWriteHTMLPreviewProducesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preview.html")
	groups := []model.Group{{GroupID: "a.com", Members: []string{"a.com", "b.com"}}}
	features := map[string]model.LogoFeatures{
		"a.com": {Website: "a.com", PreviewPath: "a.png"},
		"b.com": {Website: "b.com", PreviewPath: "b.png"},
	}
	if err := WriteHTMLPreview(groups, features, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty html output")
	}
}
