// Package fetchimg downloads (or locally decodes) image bytes and sniffs
// their basic metadata, per spec.md §4.C.
package fetchimg

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ashish-patro/logo-grouper/internal/collab"
	"github.com/ashish-patro/logo-grouper/internal/model"
)

// FetchImageBytes downloads url's bytes via fetcher, or decodes it locally
// if it's a data: URI.
func FetchImageBytes(ctx context.Context, fetcher collab.ImageFetcher, rawURL, referer string) ([]byte, bool) {
	if rawURL == "" {
		return nil, false
	}
	if strings.HasPrefix(rawURL, "data:") {
		return decodeDataURI(rawURL)
	}
	return fetcher.FetchImageBytes(ctx, rawURL, referer)
}

// decodeDataURI decodes a data: URI locally, per spec.md §4.C.
func decodeDataURI(uri string) ([]byte, bool) {
	rest := strings.TrimPrefix(uri, "data:")
	commaIdx := strings.IndexByte(rest, ',')
	if commaIdx < 0 {
		return nil, false
	}
	header, data := rest[:commaIdx], rest[commaIdx+1:]

	if strings.Contains(header, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			// tolerate unpadded base64
			decoded, err = base64.RawStdEncoding.DecodeString(data)
			if err != nil {
				return nil, false
			}
		}
		return decoded, true
	}

	decoded, err := url.QueryUnescape(data)
	if err != nil {
		return nil, false
	}
	return []byte(decoded), true
}

// SniffImageInfo attempts raster decoding, falling back to SVG sniffing, per
// spec.md §4.C.
func SniffImageInfo(data []byte) *model.ImageInfo {
	if len(data) == 0 {
		return nil
	}

	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width := float64(cfg.Width)
		height := float64(cfg.Height)
		mime := mimeForFormat(format)
		info := &model.ImageInfo{
			Width:       &width,
			Height:      &height,
			HasAlpha:    hasAlphaChannel(data, format),
			MIME:        &mime,
			AspectRatio: computeAspectRatio(&width, &height),
		}
		return info
	}

	return sniffSVGMetadata(data)
}

func mimeForFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// hasAlphaChannel decodes the full image and reports whether it carries
// transparency: for GIF, whether the palette has a fully transparent entry;
// for images decoded with an RGBA/NRGBA colour model, whether a sampled
// pixel is not fully opaque. Other colour models (including non-GIF
// paletted images) and fully opaque images with an alpha channel report
// false.
func hasAlphaChannel(data []byte, format string) bool {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return false
	}
	switch format {
	case "gif":
		// GIF images decoded via image/gif are paletted; alpha is true only
		// when the palette declares a transparent index.
		if p, ok := img.(*image.Paletted); ok {
			for _, c := range p.Palette {
				_, _, _, a := c.RGBA()
				if a == 0 {
					return true
				}
			}
		}
		return false
	default:
		switch img.ColorModel() {
		case color.NRGBAModel, color.RGBAModel, color.NRGBA64Model, color.RGBA64Model:
			return scanHasTransparentPixel(img)
		}
		return false
	}
}

func scanHasTransparentPixel(img image.Image) bool {
	bounds := img.Bounds()
	// Sample a coarse grid of about 64x64 points (every pixel for images up
	// to 127 pixels on a side) to avoid O(w*h) cost on larger inputs.
	stepX := max(1, bounds.Dx()/64)
	stepY := max(1, bounds.Dy()/64)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			_, _, _, a := img.At(x, y).RGBA()
			if a < 0xffff {
				return true
			}
		}
	}
	return false
}

var svgDimensionPattern = regexp.MustCompile(`([0-9]*\.?[0-9]+)`)

type svgRoot struct {
	XMLName xml.Name
	Width   string `xml:"width,attr"`
	Height  string `xml:"height,attr"`
	ViewBox string `xml:"viewBox,attr"`
}

// sniffSVGMetadata inspects the first 512 non-whitespace bytes for an SVG
// opening tag and, if found, parses width/height or falls back to viewBox.
func sniffSVGMetadata(data []byte) *model.ImageInfo {
	head := bytes.ToLower(bytes.TrimSpace(firstN(data, 512)))
	if !bytes.HasPrefix(head, []byte("<")) || !bytes.Contains(head, []byte("<svg")) {
		return nil
	}

	var root svgRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil
	}
	if !strings.EqualFold(localName(root.XMLName.Local), "svg") {
		return nil
	}

	width := extractSVGDimension(root.Width)
	height := extractSVGDimension(root.Height)
	if (width == nil || height == nil) && root.ViewBox != "" {
		parts := strings.Fields(strings.ReplaceAll(root.ViewBox, ",", " "))
		if len(parts) == 4 {
			if width == nil {
				width = toFloat(parts[2])
			}
			if height == nil {
				height = toFloat(parts[3])
			}
		}
	}

	mime := "image/svg+xml"
	return &model.ImageInfo{
		Width:       width,
		Height:      height,
		HasAlpha:    true,
		MIME:        &mime,
		AspectRatio: computeAspectRatio(width, height),
	}
}

func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func firstN(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	return data[:n]
}

func extractSVGDimension(value string) *float64 {
	if value == "" {
		return nil
	}
	return toFloat(svgDimensionPattern.FindString(value))
}

func toFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func computeAspectRatio(width, height *float64) *float64 {
	if width == nil || height == nil || *height == 0 {
		return nil
	}
	ratio := *width / *height
	return &ratio
}
