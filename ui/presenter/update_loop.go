package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It ticks the sub-presenters and invokes a scheduler callback while the
// overlay is open. The zero value is usable (methods are nil-safe).
type Loop struct {
	Overlay  *OverlayPresenter
	State    *StatePresenter
	Session  *SessionPresenter
	Schedule func()
}

func NewLoop(ov *OverlayPresenter, state *StatePresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Overlay: ov, State: state, Session: sess, Schedule: schedule}
}

// Tick runs one render pass. It stops rescheduling once the overlay closed.
func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	open := true
	if l.Overlay != nil {
		open = l.Overlay.Tick(now)
	}
	if open && l.Schedule != nil {
		l.Schedule()
	}
}
