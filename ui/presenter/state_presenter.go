package presenter

import (
	"sync"
	"time"

	"github.com/soocke/training-overlay/domain/training"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives loop transitions and reflects the latest one in the view.
// OnState is called from the detection goroutine; Tick runs on the Tk thread.
type StatePresenter struct {
	view StateView

	mu      sync.Mutex
	latest  training.State
	pending []training.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transitioned state. Its signature matches training.StateListener.
//
// The latest queued state will be reflected on the next Tick.
func (p *StatePresenter) OnState(_, next training.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick updates the view with the most recent queued state and clears the queue.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	changed := last != p.latest
	p.latest = last
	p.mu.Unlock()
	if changed {
		p.view.SetStateLabel("State: " + last.String())
	}
}
