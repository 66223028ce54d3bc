// Package normalize turns raw logo bytes into a consistent 256x256 RGBA
// image: decode (rasterizing SVG when needed) → trim → square-pad →
// resize. Grounded on original_source/src/extract/normalize.py, adapted
// to Go's image/draw pipeline.
package normalize

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ashish-patro/logo-grouper/internal/errs"
)

// DefaultSize is the normalized output side length, per spec.md §4.E.
const DefaultSize = 256

// DefaultPad is the transparent border added before squaring, per spec.md
// §4.E.
const DefaultPad = 8

var svgMimeTypes = map[string]bool{
	"image/svg+xml": true,
	"image/svg":     true,
	"text/svg":      true,
}

// Normalize runs the full pipeline: decode → trim → square-pad → resize.
func Normalize(data []byte, mimeHint string) (*image.RGBA, error) {
	img, err := Decode(data, mimeHint)
	if err != nil {
		return nil, err
	}
	trimmed := TrimAndSquare(img, DefaultPad)
	return Resize(trimmed, DefaultSize), nil
}

// Decode rasterizes SVG input (falling back to raw-byte decode on any
// rasterization error, per the resolved Open Question in SPEC_FULL.md §9)
// and returns an RGBA image.
func Decode(data []byte, mimeHint string) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, errs.New(errs.KindInvalidImage, "", "empty image payload", nil)
	}

	payload := data
	if isSVGHint(mimeHint) || looksLikeSVG(data) {
		if rasterized, err := rasterizeSVG(data); err == nil {
			payload = rasterized
		}
		// rasterization failure: fall through and try to decode the raw
		// bytes as a raster image, per the resolved open question.
	}

	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, errs.New(errs.KindInvalidImage, "", "failed to decode image", err)
	}

	return toRGBA(img), nil
}

func isSVGHint(mime string) bool {
	return svgMimeTypes[strings.ToLower(mime)]
}

func looksLikeSVG(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(firstN(data, 1024)))
	if bytes.HasPrefix(head, []byte("<svg")) {
		return true
	}
	return bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg"))
}

func firstN(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	return data[:n]
}

// rasterizeSVG parses and rasterizes svgData to a PNG-equivalent RGBA
// image using oksvg+rasterx, the ecosystem pairing the pack's
// favicon-fetcher manifest already depends on for vector logo/icon work.
func rasterizeSVG(svgData []byte) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, errors.New("svg has no usable viewBox")
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 || w > 8192 || h > 8192 {
		return nil, errors.New("svg dimensions out of range")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)
	return out
}

// TrimAndSquare crops to the bounding box of non-transparent (or
// non-background) content, then pads the result onto a transparent square
// canvas, per spec.md §4.E.
func TrimAndSquare(img *image.RGBA, pad int) *image.RGBA {
	bbox, ok := alphaBBox(img)
	if !ok {
		bbox, ok = colorBBox(img)
	}

	var trimmed *image.RGBA
	if ok {
		trimmed = cropRGBA(img, bbox)
	} else {
		trimmed = img
	}

	contentW := trimmed.Bounds().Dx()
	contentH := trimmed.Bounds().Dy()
	if contentW == 0 || contentH == 0 {
		return trimmed
	}

	if pad < 0 {
		pad = 0
	}
	side := contentW
	if contentH > side {
		side = contentH
	}
	side += pad * 2

	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	offsetX := (side - contentW) / 2
	offsetY := (side - contentH) / 2
	draw.Draw(canvas, image.Rect(offsetX, offsetY, offsetX+contentW, offsetY+contentH), trimmed, trimmed.Bounds().Min, draw.Over)
	return canvas
}

func alphaBBox(img *image.RGBA) (image.Rectangle, bool) {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a != 0 {
				found = true
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x+1 > maxX {
					maxX = x + 1
				}
				if y+1 > maxY {
					maxY = y + 1
				}
			}
		}
	}

	if !found {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX, maxY), true
}

func colorBBox(img *image.RGBA) (image.Rectangle, bool) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}, false
	}
	bg := img.At(bounds.Min.X, bounds.Min.Y)
	bgR, bgG, bgB, bgA := bg.RGBA()

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if r != bgR || g != bgG || b != bgB || a != bgA {
				found = true
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x+1 > maxX {
					maxX = x + 1
				}
				if y+1 > maxY {
					maxY = y + 1
				}
			}
		}
	}

	if !found {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX, maxY), true
}

func cropRGBA(img *image.RGBA, rect image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}

// Resize scales img to size x size using a Lanczos-class resampler
// (golang.org/x/image/draw.CatmullRom), per spec.md §4.E.
func Resize(img *image.RGBA, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// CompositeOnBackground flattens img onto an opaque RGB background color,
// used for the preview asset per spec.md §6.
func CompositeOnBackground(img *image.RGBA, bg color.Color) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
