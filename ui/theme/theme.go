package theme

// Overlay palette and window styling. The overlay is a single label on a
// translucent topmost window, so the palette is small and comes from config.

import (
	"github.com/soocke/training-overlay/config"

	tk "modernc.org/tk9.0"
)

// Palette defaults used when the config leaves a field empty.
const (
	ColorBg   = "#3A0968"
	ColorText = "#FFFFFF"
	FontName  = "Segoe UI"
	FontSize  = 11
	Alpha     = 0.70
)

// Palette is the resolved overlay look.
type Palette struct {
	Bg    string
	Text  string
	Font  string
	Size  int
	Alpha float64
	PadX  int
	PadY  int
}

// FromConfig resolves the palette from cfg, falling back to the defaults.
func FromConfig(cfg *config.Config) Palette {
	p := Palette{Bg: ColorBg, Text: ColorText, Font: FontName, Size: FontSize, Alpha: Alpha}
	if cfg == nil {
		return p
	}
	if cfg.OverlayBg != "" {
		p.Bg = cfg.OverlayBg
	}
	if cfg.OverlayFg != "" {
		p.Text = cfg.OverlayFg
	}
	if cfg.OverlayFont != "" {
		p.Font = cfg.OverlayFont
	}
	if cfg.OverlayFontSize > 0 {
		p.Size = cfg.OverlayFontSize
	}
	if cfg.OverlayAlpha > 0 && cfg.OverlayAlpha <= 1 {
		p.Alpha = cfg.OverlayAlpha
	}
	p.PadX, p.PadY = cfg.OverlayPadX, cfg.OverlayPadY
	return p
}

// LabelOpts returns the options for the overlay text label.
func (p Palette) LabelOpts() []tk.Opt {
	return []tk.Opt{
		tk.Background(p.Bg),
		tk.Foreground(p.Text),
		tk.Font(p.Font, p.Size),
		tk.Justify("left"),
		tk.Anchor("w"),
		tk.Padx(p.PadX),
		tk.Pady(p.PadY),
	}
}

// Apply colors the root window and sets its translucency.
func Apply(p Palette) {
	tk.App.Configure(tk.Background(p.Bg))
	tk.WmAttributes(tk.App, "-alpha", p.Alpha)
}
