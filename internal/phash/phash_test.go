package phash

import (
	"image"
	"image/color"
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

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / w)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestComputeHashLength(t *testing.T) {
	h := Compute(solidImage(256, 256, color.RGBA{R: 100, G: 150, B: 200, A: 255}))
	for name, v := range map[string]string{"ahash": h.AHash, "phash": h.PHash, "dhash": h.DHash} {
		if len(v) != 16 {
			t.Fatalf("%s: expected 16 hex chars, got %d (%q)", name, len(v), v)
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	img := gradientImage(256, 256)
	a := Compute(img)
	b := Compute(img)
	if a != b {
		t.Fatalf("expected identical hashes across runs, got %+v vs %+v", a, b)
	}
}

func TestIdenticalImagesZeroHammingDistance(t *testing.T) {
	img := gradientImage(256, 256)
	a := Compute(img)
	b := Compute(img)
	if d := Hamming(a.PHash, b.PHash); d != 0 {
		t.Fatalf("expected 0 phash distance, got %d", d)
	}
	if d := Hamming(a.AHash, b.AHash); d != 0 {
		t.Fatalf("expected 0 ahash distance, got %d", d)
	}
	if d := Hamming(a.DHash, b.DHash); d != 0 {
		t.Fatalf("expected 0 dhash distance, got %d", d)
	}
}

func TestSolidColorsHaveLowAHashDistance(t *testing.T) {
	red := Compute(solidImage(256, 256, color.RGBA{R: 255, A: 255}))
	alsoRed := Compute(solidImage(256, 256, color.RGBA{R: 250, A: 255}))
	if d := Hamming(red.AHash, alsoRed.AHash); d > 4 {
		t.Fatalf("expected near-identical ahash for near-identical solid colors, got distance %d", d)
	}
}

func TestDistinctImagesDiffer(t *testing.T) {
	a := Compute(solidImage(256, 256, color.RGBA{R: 255, A: 255}))
	b := Compute(gradientImage(256, 256))
	if a.DHash == b.DHash && a.AHash == b.AHash && a.PHash == b.PHash {
		t.Fatalf("expected visually distinct images to produce different hashes")
	}
}

func TestHammingMismatchedLengths(t *testing.T) {
	if d := Hamming("ab", "abcd"); d != -1 {
		t.Fatalf("expected -1 for mismatched lengths, got %d", d)
	}
}

func TestHammingKnownValue(t *testing.T) {
	if d := Hamming("00", "01"); d != 1 {
		t.Fatalf("expected hamming distance 1, got %d", d)
	}
	if d := Hamming("ff", "00"); d != 8 {
		t.Fatalf("expected hamming distance 8, got %d", d)
	}
}
