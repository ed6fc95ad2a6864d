package view

import (
	"fmt"
	"time"

	"github.com/soocke/training-overlay/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows how long detection has run and how many cycles completed.
type SessionStats interface {
	SetSession(d time.Duration, cycles int, best string)
}

type sessionStats struct {
	lbl *LabelWidget
}

// NewSessionStats packs a single stats line below the overlay text.
func NewSessionStats(p theme.Palette) SessionStats {
	s := &sessionStats{lbl: Label(p.LabelOpts()...)}
	Pack(s.lbl, Fill("x"))
	s.lbl.Configure(Txt(FormatSession(0, 0, "")))
	return s
}

// SetSession updates the stats line.
func (s *sessionStats) SetSession(d time.Duration, cycles int, best string) {
	if s == nil || s.lbl == nil {
		return
	}
	s.lbl.Configure(Txt(FormatSession(d, cycles, best)))
}

// FormatSession renders "Session: mm:ss  Cycles: n" with the best result appended when known.
func FormatSession(d time.Duration, cycles int, best string) string {
	seconds := int(d.Seconds())
	min, sec := seconds/60, seconds%60
	s := fmt.Sprintf("Session: %02d:%02d  Cycles: %d", min, sec, cycles)
	if best != "" {
		s += "  Best: " + best
	}
	return s
}
