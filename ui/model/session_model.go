package model

import (
	"sync"
	"time"
)

// SessionModel tracks how long detection has been running and a summary of
// the cycles completed so far. Cycles are recorded from the detection
// goroutine while the render tick reads, so access is synchronized.
// The zero value is ready to use.
type SessionModel struct {
	mu       sync.Mutex
	active   bool
	started  time.Time
	duration time.Duration

	cycles  int
	best    float64
	bestFor string
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the running duration. running reports whether the
// detection loop is still alive; once it turns false the duration freezes.
func (m *SessionModel) OnTick(running bool, now time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if running {
		if !m.active {
			m.active = true
			m.started = now
		}
		m.duration = now.Sub(m.started)
	} else if m.active {
		m.duration = now.Sub(m.started)
		m.active = false
	}
}

// OnCycle records a completed cycle for stat with the given value.
func (m *SessionModel) OnCycle(stat string, value float64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles++
	if m.cycles == 1 || value > m.best {
		m.best, m.bestFor = value, stat
	}
}

// Summary is a point-in-time copy of the model.
type Summary struct {
	Duration time.Duration
	Cycles   int
	Best     float64
	BestStat string
}

// Values returns the current summary.
func (m *SessionModel) Values() Summary {
	if m == nil {
		return Summary{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{Duration: m.duration, Cycles: m.cycles, Best: m.best, BestStat: m.bestFor}
}
