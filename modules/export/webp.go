package export

import (
	"bytes"
	"fmt"
	"image/png"
	"log"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// ConvertPNGToWebP - re-encode a PNG raster as lossy WebP for archive upload
func ConvertPNGToWebP(pngData []byte, quality float32) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := buf.Bytes()
	log.Printf("🔄 [Export] PNG converted to WebP: %d bytes → %d bytes", len(pngData), len(webpData))
	return webpData, nil
}
