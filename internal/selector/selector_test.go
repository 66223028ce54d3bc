package selector

import (
	"context"
	"testing"

	"github.com/ashish-patro/logo-grouper/internal/model"
)

type fakeFetcher struct {
	bytesByURL map[string][]byte
}

func (f fakeFetcher) FetchImageBytes(_ context.Context, url, _ string) ([]byte, bool) {
	b, ok := f.bytesByURL[url]
	return b, ok
}

func TestSelectBestEmpty(t *testing.T) {
	if got := SelectBest(context.Background(), nil, "https://example.com", Eager, fakeFetcher{}); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSelectBestLazyNeverFetches(t *testing.T) {
	candidates := []model.Candidate{
		{Src: "/a.png", Confidence: 0.5},
		{Src: "/b.png", Confidence: 0.9},
	}
	fetcher := fakeFetcher{bytesByURL: map[string][]byte{
		"https://example.com/b.png": []byte("bytes"),
	}}
	got := SelectBest(context.Background(), candidates, "https://example.com", Lazy, fetcher)
	if got == nil {
		t.Fatalf("expected candidate")
	}
	if got.Src != "/b.png" {
		t.Fatalf("expected highest-confidence candidate, got %+v", got)
	}
	if len(got.ImageBytes) != 0 {
		t.Fatalf("lazy selection must not fetch bytes")
	}
	if got.ResolvedSrc != "https://example.com/b.png" {
		t.Fatalf("expected resolved_src set, got %q", got.ResolvedSrc)
	}
}

func TestSelectBestPrefersBytes(t *testing.T) {
	candidates := []model.Candidate{
		{Src: "/no-bytes.png", Confidence: 0.9},
		{Src: "/has-bytes.png", Confidence: 0.5},
	}
	fetcher := fakeFetcher{bytesByURL: map[string][]byte{
		"https://example.com/has-bytes.png": []byte("bytes"),
	}}
	got := SelectBest(context.Background(), candidates, "https://example.com", Eager, fetcher)
	if got == nil || got.Src != "/has-bytes.png" {
		t.Fatalf("expected candidate with bytes to win, got %+v", got)
	}
}

func TestSelectBestFallsBackWithoutBytes(t *testing.T) {
	candidates := []model.Candidate{
		{Src: "/a.png", Confidence: 0.9},
		{Src: "/b.png", Confidence: 0.5},
	}
	got := SelectBest(context.Background(), candidates, "https://example.com", Eager, fakeFetcher{})
	if got == nil || got.Src != "/a.png" {
		t.Fatalf("expected highest-confidence fallback, got %+v", got)
	}
	if len(got.ImageBytes) != 0 {
		t.Fatalf("expected no bytes")
	}
}

func TestScoreAdjustments(t *testing.T) {
	w, h, ar := 100.0, 100.0, 1.0
	info := &model.ImageInfo{Width: &w, Height: &h, AspectRatio: &ar, HasAlpha: true}
	score := Score(0.5, info)
	want := 0.5 + 0.05 + 0.05
	if diff := score - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("got %v want %v", score, want)
	}
}

func TestScoreTinyPenalty(t *testing.T) {
	w, h := 20.0, 20.0
	info := &model.ImageInfo{Width: &w, Height: &h}
	score := Score(0.5, info)
	want := 0.5 - 0.10
	if diff := score - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("got %v want %v", score, want)
	}
}
