package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/ashish-patro/logo-grouper/internal/config"
)

func solidPNGDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

type fakeClient struct {
	html map[string]string
}

func (f fakeClient) FetchHTML(_ context.Context, url string) (string, string, bool) {
	html, ok := f.html[url]
	return url, html, ok
}

func (f fakeClient) FetchImageBytes(_ context.Context, _ string, _ string) ([]byte, bool) {
	return nil, false
}

func pageWithLogo(dataURI string) string {
	return `<html><head>
		<script type="application/ld+json">{"@type":"Organization","logo":"` + dataURI + `"}</script>
	</head><body></body></html>`
}

func TestRunProcessesSitesAndGroupsIdenticalLogos(t *testing.T) {
	dataURI := solidPNGDataURI(t)
	client := fakeClient{html: map[string]string{
		"https://a.com": pageWithLogo(dataURI),
		"https://b.com": pageWithLogo(dataURI),
	}}

	cfg := config.Default()
	opts := Options{AssetsDir: filepath.Join(t.TempDir(), "assets")}

	result, err := Run(context.Background(), []string{"https://a.com", "https://b.com"}, cfg, opts, client, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Features) != 2 {
		t.Fatalf("expected 2 successful sites, got %d (failures: %+v)", len(result.Features), result.Failures)
	}
	if result.Metrics.GroupsFound != 1 {
		t.Fatalf("expected identical logos to form a single group, got %d groups: %+v", result.Metrics.GroupsFound, result.Groups)
	}
}

func TestRunRecordsFetchFailures(t *testing.T) {
	client := fakeClient{html: map[string]string{}}
	cfg := config.Default()

	result, err := Run(context.Background(), []string{"https://unreachable.com"}, cfg, Options{}, client, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if result.Failures[0].Err == nil {
		t.Fatalf("expected a populated error")
	}
}
