// Package similarity fuses per-channel hash/histogram/shape signals into
// a single edge score between two logo feature records, per spec.md
// §4.I. Grounded on original_source/src/similarity/combiner.py for the
// fusion formula and uncertain-band ORB blend.
package similarity

import (
	"github.com/ashish-patro/logo-grouper/internal/colorfeat"
	"github.com/ashish-patro/logo-grouper/internal/config"
	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/orb"
	"github.com/ashish-patro/logo-grouper/internal/phash"
)

// hashBits is the bit length of the 16-hex-char perceptual hashes.
const hashBits = 64

// HashSimilarity converts a Hamming distance between two equal-length
// perceptual hashes into a [0,1] similarity.
func HashSimilarity(a, b string) float64 {
	d := phash.Hamming(a, b)
	if d < 0 {
		return 0
	}
	sim := 1 - float64(d)/float64(hashBits)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// Fuse computes the weighted fusion score of spec.md §4.I's non-ORB
// channels: 0.35*phash + 0.25*dhash + 0.15*ahash + 0.25*histogram.
func Fuse(a, b model.LogoFeatures, w config.Weights) float64 {
	phashSim := HashSimilarity(a.Perceptual.PHash, b.Perceptual.PHash)
	dhashSim := HashSimilarity(a.Perceptual.DHash, b.Perceptual.DHash)
	ahashSim := HashSimilarity(a.Perceptual.AHash, b.Perceptual.AHash)
	histSim := colorfeat.HistogramDistance(a.HSVHistogram, b.HSVHistogram)

	return w.PHash*phashSim + w.DHash*dhashSim + w.AHash*ahashSim + w.Hist*histSim
}

// InUncertainBand reports whether a fusion score falls in the band where
// ORB shape matching is worth the extra compute, per spec.md §4.I: [T_LINK
// - 0.05, T_LINK + 0.10].
func InUncertainBand(score float64, tLink float64) bool {
	return score >= tLink-0.05 && score <= tLink+0.10
}

// Blend combines the fusion score with an ORB shape score using the
// 0.8/0.2 split fixed by spec.md §4.I, applied only in the uncertain
// band.
func Blend(fusionScore, orbScore float64) float64 {
	return 0.8*fusionScore + 0.2*orbScore
}

// ORBScore computes the shape-match score between two images' ORB
// descriptors.
func ORBScore(a, b orb.Descriptors) float64 {
	return orb.Score(a, b)
}

// Compare produces the final edge score between two feature records,
// running the cheap fusion first and only computing ORB descriptors (via
// descriptorFn, typically memoized per-site) when the score lands in the
// uncertain band.
func Compare(a, b model.LogoFeatures, cfg config.Config, descriptorFn func(model.LogoFeatures) orb.Descriptors) (score float64, usedORB bool) {
	fusion := Fuse(a, b, cfg.Weights)
	if !InUncertainBand(fusion, cfg.TLink) || descriptorFn == nil {
		return fusion, false
	}

	orbScore := ORBScore(descriptorFn(a), descriptorFn(b))
	return Blend(fusion, orbScore), true
}

// Classify reports whether a score is linked and/or confirmed, per
// spec.md §4.I's two thresholds.
func Classify(score float64, cfg config.Config) (linked, confirmed bool) {
	return score >= cfg.TLink, score >= cfg.TConfirm
}
