package theme

import (
	"fmt"
	"strings"
)

// Theme - identifier for one of the fixed visual presets
type Theme string

const (
	Minimalist     Theme = "minimalist"
	Watercolor     Theme = "watercolor"
	Cyberpunk      Theme = "cyberpunk"
	InkWash        Theme = "ink_wash"
	OilPainting    Theme = "oil_painting"
	Photorealistic Theme = "photorealistic"
	RetroPop       Theme = "retro_pop"
	Clay3D         Theme = "clay_3d"
	Blueprint      Theme = "blueprint"
)

// all - canonical ordering, used by All() and ValidateCatalog()
var all = []Theme{
	Minimalist,
	Watercolor,
	Cyberpunk,
	InkWash,
	OilPainting,
	Photorealistic,
	RetroPop,
	Clay3D,
	Blueprint,
}

// labels - display labels shown on the poster controls
var labels = map[Theme]string{
	Minimalist:     "极简 (Minimalist)",
	Watercolor:     "水彩 (Watercolor)",
	Cyberpunk:      "赛博朋克 (Cyberpunk)",
	InkWash:        "水墨 (Ink Wash)",
	OilPainting:    "油画 (Oil Painting)",
	Photorealistic: "写实 (Photorealistic)",
	RetroPop:       "波普 (Retro Pop)",
	Clay3D:         "黏土 (Clay 3D)",
	Blueprint:      "蓝图 (Blueprint)",
}

// stylePrompts - image generation prompt fragment per theme
var stylePrompts = map[Theme]string{
	Minimalist:     "minimalist, clean lines, negative space, soft pastel colors, zen aesthetic, vector art style",
	Watercolor:     "soft watercolor painting, artistic, dreamy, paper texture, fluid strokes, pastel tones",
	Cyberpunk:      "cyberpunk, neon lights, futuristic city, glowing vibrant colors, synthwave, digital art",
	InkWash:        "traditional Chinese ink wash painting, black and white with subtle red accents, calligraphy style, mountain and river",
	OilPainting:    "impressionist oil painting, textured brushstrokes, vivid colors, van gogh style, artistic masterpiece",
	Photorealistic: "cinematic photography, 8k resolution, highly detailed, dramatic lighting, depth of field, nature",
	RetroPop:       "pop art style, halftone patterns, vibrant bold colors, comic book aesthetic, roy lichtenstein style, retro 80s poster, bold outlines, ben-day dots",
	Clay3D:         "cute clay 3d render, soft lighting, pastel colors, plasticine texture, playful, isometric view, c4d style, blender 3d, rounded shapes",
	Blueprint:      "architectural blueprint, cyanotype, technical drawing, white lines on blue background, schematic, detailed engineering, grid paper, plan view",
}

// All - every theme in canonical order
func All() []Theme {
	out := make([]Theme, len(all))
	copy(out, all)
	return out
}

// Parse - resolve an identifier or display label to a Theme
func Parse(value string) (Theme, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, t := range all {
		if normalized == string(t) {
			return t, nil
		}
	}
	// display labels are accepted too, the UI sends them verbatim
	trimmed := strings.TrimSpace(value)
	for t, label := range labels {
		if trimmed == label {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme: %q", value)
}

// Label - display label for a theme
func (t Theme) Label() string {
	return labels[t]
}

// StylePrompt - prompt fragment used by the image provider
func (t Theme) StylePrompt() string {
	return stylePrompts[t]
}

// Layout - layout descriptor used by renderers
func (t Theme) Layout() LayoutStyle {
	return layouts[t]
}

// ValidateCatalog - every theme must have a label, a style prompt and a layout.
// A missing mapping is a startup failure, never a silent default.
func ValidateCatalog() error {
	for _, t := range all {
		if labels[t] == "" {
			return fmt.Errorf("theme catalog incomplete: %s has no label", t)
		}
		if stylePrompts[t] == "" {
			return fmt.Errorf("theme catalog incomplete: %s has no style prompt", t)
		}
		layout, ok := layouts[t]
		if !ok {
			return fmt.Errorf("theme catalog incomplete: %s has no layout", t)
		}
		if layout.Background == "" || layout.TextColor == "" {
			return fmt.Errorf("theme catalog incomplete: %s layout missing colors", t)
		}
	}
	return nil
}
