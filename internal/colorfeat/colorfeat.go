// Package colorfeat computes HSV color histograms and dominant hues over
// normalized logo images, per spec.md §4.G. No pack library exposes HSV
// histogram binning, so this is a justified stdlib-only implementation
// (recorded in DESIGN.md), grounded on
// original_source/src/extract/color_features.py.
package colorfeat

import (
	"image"
	"math"
	"sort"
)

const (
	// HueBins, SatBins, ValBins set the 12x6x6 HSV histogram shape, per
	// spec.md §4.G.
	HueBins = 12
	SatBins = 6
	ValBins = 6

	// HistogramLength is HueBins*SatBins*ValBins, the flattened feature
	// vector length.
	HistogramLength = HueBins * SatBins * ValBins

	// DominantHueBins is the coarser 36-bin hue histogram used for
	// dominant-hue extraction, per spec.md §4.G (bin width 5 degrees).
	DominantHueBins = 36

	// DefaultTopK is the number of dominant hue bin centers returned.
	DefaultTopK = 3
)

// Features holds the computed color features for one normalized image.
type Features struct {
	// Histogram is the flattened, L1-normalized H-major/S/V HSV
	// histogram, length HistogramLength.
	Histogram []float64
	// DominantHues holds up to DefaultTopK hue bin centers (on a 0-180
	// hue scale) ordered by descending pixel count.
	DominantHues []float64
}

// Compute derives the HSV histogram and dominant hues for img, skipping
// fully transparent pixels (alpha == 0) so padding never biases the
// distribution.
func Compute(img *image.RGBA) Features {
	bounds := img.Bounds()
	histogram := make([]float64, HistogramLength)
	hueCounts := make([]float64, DominantHueBins)
	var total float64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			h, s, v := rgbToHSV(float64(r)/65535, float64(g)/65535, float64(b)/65535)

			hBin := binIndex(h/360, HueBins)
			sBin := binIndex(s, SatBins)
			vBin := binIndex(v, ValBins)
			histogram[hBin*SatBins*ValBins+sBin*ValBins+vBin]++

			hueCounts[binIndex(h/360, DominantHueBins)]++
			total++
		}
	}

	if total > 0 {
		for i := range histogram {
			histogram[i] /= total
		}
	}

	return Features{
		Histogram:    histogram,
		DominantHues: topDominantHues(hueCounts, DefaultTopK),
	}
}

func binIndex(fraction float64, bins int) int {
	idx := int(fraction * float64(bins))
	if idx >= bins {
		idx = bins - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// rgbToHSV converts normalized [0,1] RGB to H in [0,360), S and V in
// [0,1].
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	delta := max - min

	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	case b:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

type hueBin struct {
	index int
	count float64
}

// topDominantHues returns the centers of the top-k hue bins by descending
// count, per spec.md §4.G. Centers are on a 0-180 hue scale, so the bin
// width is 180/DominantHueBins = 5.
func topDominantHues(counts []float64, k int) []float64 {
	bins := make([]hueBin, len(counts))
	for i, c := range counts {
		bins[i] = hueBin{index: i, count: c}
	}
	sort.SliceStable(bins, func(i, j int) bool {
		if bins[i].count != bins[j].count {
			return bins[i].count > bins[j].count
		}
		return bins[i].index < bins[j].index
	})

	binWidth := 180.0 / float64(DominantHueBins)
	var result []float64
	for i := 0; i < k && i < len(bins); i++ {
		if bins[i].count == 0 {
			break
		}
		center := (float64(bins[i].index) + 0.5) * binWidth
		result = append(result, center)
	}
	return result
}

// HistogramDistance returns a bounded [0,1] similarity between two
// L1-normalized histograms using the histogram intersection kernel, per
// spec.md §4.I.
func HistogramDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var intersection float64
	for i := range a {
		intersection += math.Min(a[i], b[i])
	}
	return intersection
}
