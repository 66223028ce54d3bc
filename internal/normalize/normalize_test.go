package normalize

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRasterPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	img, err := Decode(encodePNG(t, src), "image/png")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	if _, err := Decode(nil, ""); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestDecodeSVGRasterizes(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
		<rect x="2" y="2" width="6" height="6" fill="#ff0000"/>
	</svg>`)
	img, err := Decode(svg, "image/svg+xml")
	if err != nil {
		t.Fatalf("decode svg: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("expected non-empty rasterized bounds, got %v", img.Bounds())
	}
}

func TestTrimAndSquarePadsToSquare(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 4))
	for y := 0; y < 4; y++ {
		for x := 2; x < 6; x++ {
			img.Set(x, y, color.RGBA{R: 1, G: 2, B: 3, A: 255})
		}
	}
	out := TrimAndSquare(img, 2)
	if out.Bounds().Dx() != out.Bounds().Dy() {
		t.Fatalf("expected square output, got %v", out.Bounds())
	}
	// content width 4, height 4 -> side 4+2*2=8
	if out.Bounds().Dx() != 8 {
		t.Fatalf("expected side 8, got %d", out.Bounds().Dx())
	}
}

func TestTrimAndSquareFullyTransparentPadsWholeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	out := TrimAndSquare(img, 4)
	// nothing to trim, so the whole 5x5 image is kept and padded: 5+2*4=13
	if out.Bounds().Dx() != 13 || out.Bounds().Dy() != 13 {
		t.Fatalf("expected 13x13 bounds for fully transparent image, got %v", out.Bounds())
	}
}

func TestResizeProducesRequestedSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 20))
	out := Resize(img, 256)
	if out.Bounds().Dx() != 256 || out.Bounds().Dy() != 256 {
		t.Fatalf("expected 256x256, got %v", out.Bounds())
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 2; y < 8; y++ {
		for x := 5; x < 15; x++ {
			src.Set(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	out, err := Normalize(encodePNG(t, src), "image/png")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Bounds().Dx() != DefaultSize || out.Bounds().Dy() != DefaultSize {
		t.Fatalf("expected %dx%d, got %v", DefaultSize, DefaultSize, out.Bounds())
	}
}
