package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"log"
	"strings"

	"inspiration-poster-server/modules/poster"
)

// Base poster dimensions before the export scale is applied
const (
	baseWidth  = 600
	baseHeight = 800
)

// DrawRasterizer - server-side stand-in for the browser's canvas capture.
// Composites the generated background onto a theme-colored page; full
// typography stays with the UI renderer.
type DrawRasterizer struct{}

func NewDrawRasterizer() *DrawRasterizer {
	return &DrawRasterizer{}
}

// Rasterize - render the poster surface to PNG at the given scale
func (r *DrawRasterizer) Rasterize(record *poster.PosterRecord, scale int) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("no poster record to rasterize")
	}
	if scale < 1 {
		scale = 1
	}

	layout := record.Theme.Layout()
	width := baseWidth * scale
	height := baseHeight * scale

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))

	// page background; transparent is permitted when no color is mapped
	if bg, ok := parseHexColor(layout.Background); ok {
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	}

	if record.ImageURL != "" {
		data, _, err := DecodeDataURI(record.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to decode poster image: %w", err)
		}

		background, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode background image: %w", err)
		}
		log.Printf("🔍 [Export] Decoded background format: %s", format)

		target := imageRect(layout.FullBleed, width, height, scale)
		scaled := scaleImage(background, target.Dx(), target.Dy())

		alpha := uint8(255)
		if layout.ImageOpacity > 0 && layout.ImageOpacity < 1 {
			alpha = uint8(layout.ImageOpacity * 255)
		}
		mask := image.NewUniform(color.Alpha{A: alpha})
		draw.DrawMask(canvas, target, scaled, image.Point{}, mask, image.Point{}, draw.Over)
	}

	// accent strip standing in for the lucky-color chip
	if accent, ok := parseHexColor(layout.AccentColor); ok {
		strip := image.Rect(0, height-8*scale, width, height)
		draw.Draw(canvas, strip, &image.Uniform{C: accent}, image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode poster PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageRect - full-bleed themes cover the page, card themes keep a margin
// with the image in the upper portion
func imageRect(fullBleed bool, width, height, scale int) image.Rectangle {
	if fullBleed {
		return image.Rect(0, 0, width, height)
	}
	margin := 24 * scale
	return image.Rect(margin, margin, width-margin, margin+(width-2*margin)*3/4)
}

// scaleImage - nearest-neighbor resize
func scaleImage(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	bounds := src.Bounds()

	for y := 0; y < height; y++ {
		srcY := bounds.Min.Y + y*bounds.Dy()/height
		for x := 0; x < width; x++ {
			srcX := bounds.Min.X + x*bounds.Dx()/width
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}

// DecodeDataURI - split a data URI into raw bytes and MIME type
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("not a data URI")
	}

	rest := strings.TrimPrefix(uri, "data:")
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return nil, "", fmt.Errorf("malformed data URI")
	}

	meta := rest[:sep]
	payload := rest[sep+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URI encoding: %s", meta)
	}
	mimeType := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	return data, mimeType, nil
}

// parseHexColor - #rrggbb to color.RGBA
func parseHexColor(value string) (color.RGBA, bool) {
	value = strings.TrimPrefix(value, "#")
	if len(value) != 6 {
		return color.RGBA{}, false
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(value, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}
