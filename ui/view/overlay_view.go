package view

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/soocke/training-overlay/config"
	"github.com/soocke/training-overlay/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// OverlayView is the always-on-top results window. It owns the root Tk
// window and must only be touched from the Tk thread.
type OverlayView struct {
	cfg     *config.Config
	logger  *slog.Logger
	palette theme.Palette

	TextLabel  *LabelWidget
	StateLabel *LabelWidget
	Session    SessionStats

	destroyed bool
}

// UI is the subset of view operations the presenters need.
type UI interface {
	SetText(text string)
	SetStateLabel(text string)
	SetSession(d time.Duration, cycles int, best string)
	Destroy()
}

func NewOverlayView(cfg *config.Config, logger *slog.Logger) *OverlayView {
	return &OverlayView{cfg: cfg, logger: logger, palette: theme.FromConfig(cfg)}
}

// Build positions the root window and creates the text label. onClose runs
// when the window manager asks the window to close.
func (v *OverlayView) Build(onClose func()) {
	if v == nil {
		return
	}
	x, y := 5, 5
	if v.cfg != nil {
		x, y = v.cfg.OverlayX, v.cfg.OverlayY
	}
	App.WmTitle("")
	WmGeometry(App, fmt.Sprintf("+%d+%d", x, y))
	WmAttributes(App, "-topmost", 1)
	if runtime.GOOS == "windows" {
		WmAttributes(App, "-toolwindow", true)
	}
	theme.Apply(v.palette)
	if onClose != nil {
		WmProtocol(App, "WM_DELETE_WINDOW", onClose)
	}

	v.TextLabel = Label(append([]Opt{Txt("No data")}, v.palette.LabelOpts()...)...)
	Pack(v.TextLabel, Fill("both"), Expand(true))

	if v.cfg != nil && v.cfg.Debug {
		small := theme.Palette{Bg: v.palette.Bg, Text: v.palette.Text, Font: v.palette.Font, Size: max(7, v.palette.Size-3), PadX: v.palette.PadX}
		v.StateLabel = Label(append([]Opt{Txt("State: idle")}, small.LabelOpts()...)...)
		Pack(v.StateLabel, Fill("x"))
		v.Session = NewSessionStats(small)
	}
}

// SetText replaces the overlay text.
func (v *OverlayView) SetText(text string) {
	if v == nil || v.destroyed || v.TextLabel == nil {
		return
	}
	v.TextLabel.Configure(Txt(text))
}

// SetStateLabel updates the debug state line, when it exists.
func (v *OverlayView) SetStateLabel(text string) {
	if v == nil || v.destroyed || v.StateLabel == nil {
		return
	}
	v.StateLabel.Configure(Txt(text))
}

// SetSession updates the debug stats line, when it exists.
func (v *OverlayView) SetSession(d time.Duration, cycles int, best string) {
	if v == nil || v.destroyed || v.Session == nil {
		return
	}
	v.Session.SetSession(d, cycles, best)
}

// Destroy tears the window down, which ends App.Wait. Repeated calls do nothing.
func (v *OverlayView) Destroy() {
	if v == nil || v.destroyed {
		return
	}
	v.destroyed = true
	if v.logger != nil {
		v.logger.Info("overlay closed")
	}
	Destroy(App)
}
