package presenter

import (
	"time"

	"github.com/soocke/training-overlay/ui/model"
	"github.com/soocke/training-overlay/ui/overlay"
)

// SessionView displays the run duration and cycle summary.
type SessionView interface {
	SetSession(d time.Duration, cycles int, best string)
}

// SessionPresenter formats the session model into the view.
type SessionPresenter struct {
	sess *model.SessionModel
	stop StopSignal
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, stop StopSignal, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, stop: stop, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.view == nil {
		return
	}
	running := p.stop == nil || !p.stop.Stopped()
	p.sess.OnTick(running, now)
	s := p.sess.Values()
	best := ""
	if s.Cycles > 0 {
		best = s.BestStat + " " + overlay.FormatValue(s.Best)
	}
	p.view.SetSession(s.Duration, s.Cycles, best)
}
