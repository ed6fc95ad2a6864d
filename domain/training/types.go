package training

import (
	"context"
	"time"

	"github.com/soocke/training-overlay/domain/history"
	"github.com/soocke/training-overlay/domain/scoring"
	"github.com/soocke/training-overlay/domain/vision"
)

// State enumerates the phases of the detection loop.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateMatching
	StateScoring
	StateReporting
	StateResetRequested
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateMatching:
		return "matching"
	case StateScoring:
		return "scoring"
	case StateReporting:
		return "reporting"
	case StateResetRequested:
		return "reset"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StateListener is called on each state transition, on the loop goroutine.
type StateListener func(prev, next State)

// Binding maps a key token to the stat it scores.
type Binding struct {
	Key  string
	Stat string
}

// CycleResult describes one completed capture-match-score-report cycle.
type CycleResult struct {
	Stat         string
	Matches      []vision.Match
	Breakdown    scoring.Breakdown
	DisplayNames []string
	SnapshotPath string
	Duration     time.Duration
}

// OverlayWriter receives per-stat summaries.
type OverlayWriter interface {
	Set(stat string, names []string, value float64)
	ResetAll()
}

// HistorySink persists completed cycles.
type HistorySink interface {
	Append(ctx context.Context, e history.Entry) (int64, error)
}
