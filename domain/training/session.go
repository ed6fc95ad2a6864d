package training

import (
	"sync"
	"sync/atomic"

	"github.com/soocke/training-overlay/domain/vision"
)

// Session is the run context shared by the detection loop and the overlay.
// It carries the preloaded extra templates and the stop flag.
type Session struct {
	Extras []*vision.Template

	stopped atomic.Bool
	onStop  func()
	once    sync.Once
	done    chan struct{}
}

// NewSession returns a running session. onStop, when non-nil, runs once on
// the goroutine that first calls Stop.
func NewSession(extras []*vision.Template, onStop func()) *Session {
	return &Session{Extras: extras, onStop: onStop, done: make(chan struct{})}
}

// Stop marks the session stopped. Subsequent calls do nothing.
func (s *Session) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.stopped.Store(true)
		close(s.done)
		if s.onStop != nil {
			s.onStop()
		}
	})
}

// Stopped reports whether Stop was called.
func (s *Session) Stopped() bool { return s != nil && s.stopped.Load() }

// Done is closed when the session stops.
func (s *Session) Done() <-chan struct{} {
	if s == nil {
		return nil
	}
	return s.done
}
