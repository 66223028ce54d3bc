package colorfeat

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestComputeHistogramLengthAndNormalization(t *testing.T) {
	f := Compute(solidImage(16, 16, color.RGBA{R: 200, G: 50, B: 50, A: 255}))
	if len(f.Histogram) != HistogramLength {
		t.Fatalf("expected length %d, got %d", HistogramLength, len(f.Histogram))
	}
	var sum float64
	for _, v := range f.Histogram {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("expected L1-normalized histogram summing to 1, got %v", sum)
	}
}

func TestComputeIgnoresTransparentPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	// fully transparent canvas
	f := Compute(img)
	var sum float64
	for _, v := range f.Histogram {
		sum += v
	}
	if sum != 0 {
		t.Fatalf("expected zero-sum histogram for fully transparent image, got %v", sum)
	}
	if f.DominantHues != nil {
		t.Fatalf("expected no dominant hues for fully transparent image, got %v", f.DominantHues)
	}
}

func TestDominantHueOfSolidRed(t *testing.T) {
	f := Compute(solidImage(8, 8, color.RGBA{R: 255, A: 255}))
	if len(f.DominantHues) == 0 {
		t.Fatalf("expected at least one dominant hue")
	}
	// pure red sits at hue 0.
	if f.DominantHues[0] > 10 && f.DominantHues[0] < 350 {
		t.Fatalf("expected dominant hue near 0 for pure red, got %v", f.DominantHues[0])
	}
}

func TestHistogramDistanceIdentical(t *testing.T) {
	f := Compute(solidImage(8, 8, color.RGBA{G: 255, A: 255}))
	if d := HistogramDistance(f.Histogram, f.Histogram); math.Abs(d-1.0) > 1e-9 {
		t.Fatalf("expected self-distance 1.0, got %v", d)
	}
}

func TestHistogramDistanceDisjoint(t *testing.T) {
	a := []float64{1, 0, 0}
	b := []float64{0, 1, 0}
	if d := HistogramDistance(a, b); d != 0 {
		t.Fatalf("expected 0 for disjoint histograms, got %v", d)
	}
}

func TestHistogramDistanceMismatchedLengths(t *testing.T) {
	if d := HistogramDistance([]float64{1}, []float64{1, 2}); d != 0 {
		t.Fatalf("expected 0 for mismatched lengths, got %v", d)
	}
}

func TestRGBToHSVGrayHasZeroSaturation(t *testing.T) {
	_, s, v := rgbToHSV(0.5, 0.5, 0.5)
	if s != 0 {
		t.Fatalf("expected zero saturation for gray, got %v", s)
	}
	if math.Abs(v-0.5) > 1e-9 {
		t.Fatalf("expected value 0.5, got %v", v)
	}
}
