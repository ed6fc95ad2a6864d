package presenter

import (
	"time"

	"github.com/soocke/training-overlay/ui/overlay"
)

// EntrySource provides the overlay entries and a change counter.
type EntrySource interface {
	Snapshot() []overlay.Entry
	Version() uint64
}

// StopSignal reports whether the run has ended.
type StopSignal interface{ Stopped() bool }

// TextView displays the rendered overlay text and can be torn down.
type TextView interface {
	SetText(string)
	Destroy()
}

// OverlayPresenter renders the store into the view on every tick and closes
// the view once the run has stopped.
type OverlayPresenter struct {
	store   EntrySource
	stop    StopSignal
	view    TextView
	good    float64
	version uint64
	drawn   bool
	closed  bool
	text    string
}

func NewOverlayPresenter(store EntrySource, stop StopSignal, view TextView, good float64) *OverlayPresenter {
	return &OverlayPresenter{store: store, stop: stop, view: view, good: good}
}

// Tick redraws when the store changed since the last tick. It reports false
// once the view has been closed and no further ticks are needed.
func (p *OverlayPresenter) Tick(now time.Time) bool {
	if p == nil || p.closed {
		return false
	}
	if p.stop != nil && p.stop.Stopped() {
		p.closed = true
		if p.view != nil {
			p.view.Destroy()
		}
		return false
	}
	if p.store == nil || p.view == nil {
		return true
	}
	v := p.store.Version()
	if p.drawn && v == p.version {
		return true
	}
	text := overlay.Render(p.store.Snapshot(), p.good)
	p.version, p.drawn = v, true
	if text != p.text {
		p.text = text
		p.view.SetText(text)
	}
	return true
}

// Text returns the last text pushed to the view.
func (p *OverlayPresenter) Text() string {
	if p == nil {
		return ""
	}
	return p.text
}
