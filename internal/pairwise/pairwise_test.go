package pairwise

import (
	"image"
	"testing"

	"github.com/ashish-patro/logo-grouper/internal/config"
	"github.com/ashish-patro/logo-grouper/internal/model"
)

func feat(website, ph, dh, ah string, hist []float64) model.LogoFeatures {
	return model.LogoFeatures{
		Website:      website,
		Perceptual:   model.PerceptualHashes{PHash: ph, DHash: dh, AHash: ah},
		HSVHistogram: hist,
	}
}

func TestComputeEdgesLinksNearDuplicates(t *testing.T) {
	cfg := config.Default()
	features := []model.LogoFeatures{
		feat("a.com", "0000000000000000", "0000000000000000", "0000000000000000", []float64{1}),
		feat("b.com", "0000000000000000", "0000000000000000", "0000000000000000", []float64{1}),
		feat("c.com", "ffffffffffffffff", "ffffffffffffffff", "ffffffffffffffff", []float64{0}),
	}
	edges := ComputeEdges(features, cfg, nil)
	if len(edges) != 1 {
		t.Fatalf("expected exactly 1 edge for two identical + one unrelated site, got %d: %+v", len(edges), edges)
	}
	if edges[0].Left != "a.com" || edges[0].Right != "b.com" {
		t.Fatalf("expected edge a.com-b.com, got %+v", edges[0])
	}
	if !edges[0].Confirmed {
		t.Fatalf("expected identical features to be confirmed")
	}
}

func TestComputeEdgesNoLinksWhenDissimilar(t *testing.T) {
	cfg := config.Default()
	features := []model.LogoFeatures{
		feat("a.com", "0000000000000000", "0000000000000000", "0000000000000000", []float64{1, 0}),
		feat("b.com", "ffffffffffffffff", "ffffffffffffffff", "ffffffffffffffff", []float64{0, 1}),
	}
	edges := ComputeEdges(features, cfg, nil)
	if len(edges) != 0 {
		t.Fatalf("expected no edges for dissimilar features, got %+v", edges)
	}
}

func TestComputeEdgesDeterministicOrdering(t *testing.T) {
	cfg := config.Default()
	features := []model.LogoFeatures{
		feat("b.com", "0000000000000000", "0000000000000000", "0000000000000000", []float64{1}),
		feat("a.com", "0000000000000000", "0000000000000000", "0000000000000000", []float64{1}),
	}
	edges := ComputeEdges(features, cfg, nil)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].Left != "a.com" || edges[0].Right != "b.com" {
		t.Fatalf("expected left<right ordering regardless of input order, got %+v", edges[0])
	}
}

func TestBuildShortlistRespectsDistanceAndLimit(t *testing.T) {
	cfg := config.Default()
	cfg.ShortlistMax = 1
	features := []model.LogoFeatures{
		feat("a.com", "0000000000000000", "", "", nil),
		feat("b.com", "0000000000000001", "", "", nil),
		feat("c.com", "0000000000000003", "", "", nil),
	}
	shortlist := buildShortlist(features, 0, cfg)
	if len(shortlist) != 1 {
		t.Fatalf("expected shortlist capped at 1, got %d", len(shortlist))
	}
	if features[shortlist[0]].Website != "b.com" {
		t.Fatalf("expected closest hash (b.com) to win, got %s", features[shortlist[0]].Website)
	}
}

func TestDescriptorCacheEvictsBeyondCapacity(t *testing.T) {
	calls := 0
	loader := func(website string) (*image.RGBA, error) {
		calls++
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	}
	cache := newDescriptorCache(1, loader)
	cache.get("a.com")
	cache.get("b.com")
	cache.get("a.com")
	if calls != 3 {
		t.Fatalf("expected a.com to be reloaded after eviction, got %d loader calls", calls)
	}
}
