package theme

// DatePlacement - where the large date block sits on the poster
type DatePlacement string

const (
	DateTopLeft       DatePlacement = "top-left"
	DateBottomCenter  DatePlacement = "bottom-center"
	DateBottomLeft    DatePlacement = "bottom-left"
	DateVerticalRight DatePlacement = "vertical-right"
)

// LayoutStyle - per-theme layout parameters consumed by renderers.
// The workflow never reads these; they travel with the theme so that the
// poster surface and the server-side rasterizer agree on the composition.
type LayoutStyle struct {
	Background    string        `json:"background"`    // page background color
	TextColor     string        `json:"textColor"`     // primary text color
	AccentColor   string        `json:"accentColor"`   // highlight color (lucky color chip, seals)
	QuoteFont     string        `json:"quoteFont"`     // serif | sans | calligraphy | tech
	Texture       string        `json:"texture"`       // noise | paper | canvas | rice-paper | grid | dots | scanline | none
	DatePlacement DatePlacement `json:"datePlacement"`
	FullBleed     bool          `json:"fullBleed"`    // background image fills the page behind the text
	VerticalText  bool          `json:"verticalText"` // vertical right-to-left quote (ink wash)
	ImageOpacity  float64       `json:"imageOpacity"` // 0..1 applied to the generated background
}

// layouts - distilled from the theme styling table of the poster surface
var layouts = map[Theme]LayoutStyle{
	Minimalist: {
		Background:    "#f4f4f4",
		TextColor:     "#1f2937",
		AccentColor:   "#000000",
		QuoteFont:     "serif",
		Texture:       "noise",
		DatePlacement: DateTopLeft,
		FullBleed:     false,
		ImageOpacity:  1.0,
	},
	Watercolor: {
		Background:    "#fffdf9",
		TextColor:     "#334155",
		AccentColor:   "#6366f1",
		QuoteFont:     "calligraphy",
		Texture:       "paper",
		DatePlacement: DateTopLeft,
		FullBleed:     true,
		ImageOpacity:  0.8,
	},
	Cyberpunk: {
		Background:    "#050505",
		TextColor:     "#ecfeff",
		AccentColor:   "#ec4899",
		QuoteFont:     "tech",
		Texture:       "scanline",
		DatePlacement: DateTopLeft,
		FullBleed:     true,
		ImageOpacity:  0.6,
	},
	InkWash: {
		Background:    "#f4f3ef",
		TextColor:     "#111827",
		AccentColor:   "#b91c1c",
		QuoteFont:     "calligraphy",
		Texture:       "rice-paper",
		DatePlacement: DateVerticalRight,
		FullBleed:     true,
		VerticalText:  true,
		ImageOpacity:  0.7,
	},
	OilPainting: {
		Background:    "#2b241b",
		TextColor:     "#eaddcf",
		AccentColor:   "#d4af37",
		QuoteFont:     "serif",
		Texture:       "canvas",
		DatePlacement: DateBottomCenter,
		FullBleed:     true,
		ImageOpacity:  0.8,
	},
	Photorealistic: {
		Background:    "#000000",
		TextColor:     "#ffffff",
		AccentColor:   "#facc15",
		QuoteFont:     "sans",
		Texture:       "none",
		DatePlacement: DateBottomLeft,
		FullBleed:     true,
		ImageOpacity:  1.0,
	},
	RetroPop: {
		Background:    "#fde047",
		TextColor:     "#111111",
		AccentColor:   "#ef4444",
		QuoteFont:     "sans",
		Texture:       "dots",
		DatePlacement: DateTopLeft,
		FullBleed:     false,
		ImageOpacity:  1.0,
	},
	Clay3D: {
		Background:    "#fdf2f8",
		TextColor:     "#4c1d95",
		AccentColor:   "#f472b6",
		QuoteFont:     "sans",
		Texture:       "none",
		DatePlacement: DateTopLeft,
		FullBleed:     false,
		ImageOpacity:  1.0,
	},
	Blueprint: {
		Background:    "#1e3a8a",
		TextColor:     "#dbeafe",
		AccentColor:   "#93c5fd",
		QuoteFont:     "tech",
		Texture:       "grid",
		DatePlacement: DateTopLeft,
		FullBleed:     false,
		ImageOpacity:  0.9,
	},
}
