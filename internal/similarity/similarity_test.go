package similarity

import (
	"math"
	"testing"

	"github.com/ashish-patro/logo-grouper/internal/config"
	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/orb"
)

func TestHashSimilarityIdentical(t *testing.T) {
	if s := HashSimilarity("abcd1234abcd1234", "abcd1234abcd1234"); s != 1 {
		t.Fatalf("expected 1.0, got %v", s)
	}
}

func TestHashSimilarityMismatchedLengths(t *testing.T) {
	if s := HashSimilarity("ab", "abcd"); s != 0 {
		t.Fatalf("expected 0 for mismatched lengths, got %v", s)
	}
}

func TestFuseIdenticalFeaturesScoresOne(t *testing.T) {
	features := model.LogoFeatures{
		Perceptual:   model.PerceptualHashes{AHash: "f0f0f0f0f0f0f0f0", PHash: "0f0f0f0f0f0f0f0f", DHash: "ff00ff00ff00ff00"},
		HSVHistogram: []float64{0.5, 0.5},
	}
	cfg := config.Default()
	score := Fuse(features, features, cfg.Weights)
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("expected fusion score 1.0 for identical features, got %v", score)
	}
}

func TestInUncertainBand(t *testing.T) {
	tLink := 0.72
	if !InUncertainBand(0.70, tLink) {
		t.Fatalf("expected 0.70 within band [%v,%v]", tLink-0.05, tLink+0.10)
	}
	if !InUncertainBand(0.80, tLink) {
		t.Fatalf("expected 0.80 within band")
	}
	if InUncertainBand(0.50, tLink) {
		t.Fatalf("expected 0.50 outside band")
	}
	if InUncertainBand(0.95, tLink) {
		t.Fatalf("expected 0.95 outside band")
	}
}

func TestBlendWeights(t *testing.T) {
	got := Blend(1.0, 0.0)
	if math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("expected 0.8, got %v", got)
	}
}

func TestClassifyThresholds(t *testing.T) {
	cfg := config.Default()
	linked, confirmed := Classify(cfg.TLink, cfg)
	if !linked {
		t.Fatalf("expected score == TLink to be linked")
	}
	if confirmed {
		t.Fatalf("expected score == TLink alone to not be confirmed")
	}
	linked, confirmed = Classify(cfg.TConfirm, cfg)
	if !linked || !confirmed {
		t.Fatalf("expected score == TConfirm to be linked and confirmed")
	}
}

func TestCompareSkipsORBOutsideBand(t *testing.T) {
	a := model.LogoFeatures{
		Perceptual:   model.PerceptualHashes{AHash: "0000000000000000", PHash: "0000000000000000", DHash: "0000000000000000"},
		HSVHistogram: []float64{1},
	}
	b := model.LogoFeatures{
		Perceptual:   model.PerceptualHashes{AHash: "ffffffffffffffff", PHash: "ffffffffffffffff", DHash: "ffffffffffffffff"},
		HSVHistogram: []float64{0},
	}
	cfg := config.Default()
	called := false
	descriptorFn := func(model.LogoFeatures) orb.Descriptors {
		called = true
		return orb.Descriptors{}
	}
	_, usedORB := Compare(a, b, cfg, descriptorFn)
	if usedORB || called {
		t.Fatalf("expected ORB to be skipped far outside the uncertain band")
	}
}
