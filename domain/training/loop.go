package training

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/training-overlay/config"
	"github.com/soocke/training-overlay/domain/capture"
	"github.com/soocke/training-overlay/domain/history"
	"github.com/soocke/training-overlay/domain/input"
	"github.com/soocke/training-overlay/domain/scoring"
	"github.com/soocke/training-overlay/domain/snapshot"
	"github.com/soocke/training-overlay/domain/vision"
)

// Options are the loop's tunables.
type Options struct {
	Bindings         []Binding
	StopKey          string
	ResetKey         string
	Threshold        float64
	Suppression      vision.SuppressionOrder
	RestrictedPrefix string
	Workers          int // 0 means NumCPU
	PollInterval     time.Duration
	DetectDebounce   time.Duration
	ResetDebounce    time.Duration
	ErrorBackoff     time.Duration
}

// OptionsFromConfig maps a validated config onto loop options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	b := make([]Binding, 0, len(cfg.Keys))
	for _, k := range cfg.Keys {
		b = append(b, Binding{Key: k.Key, Stat: k.Stat})
	}
	return Options{
		Bindings:         b,
		StopKey:          cfg.StopKey,
		ResetKey:         cfg.ResetKey,
		Threshold:        cfg.Threshold,
		Suppression:      vision.ParseSuppression(cfg.Suppression),
		RestrictedPrefix: cfg.RestrictedPrefix,
		Workers:          cfg.Workers,
		PollInterval:     cfg.PollInterval(),
		DetectDebounce:   cfg.DetectDebounce(),
		ResetDebounce:    cfg.ResetDebounce(),
		ErrorBackoff:     cfg.ErrorBackoff(),
	}
}

// Keys returns every key token the loop polls: stat keys, then stop and reset.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o.Bindings)+2)
	for _, b := range o.Bindings {
		keys = append(keys, b.Key)
	}
	return append(keys, o.StopKey, o.ResetKey)
}

// Deps are the loop's collaborators. Snapshots and History are optional.
type Deps struct {
	Logger    *slog.Logger
	Templates []*vision.Template
	Keys      input.KeySource
	Frames    capture.FrameSource
	Overlay   OverlayWriter
	Snapshots snapshot.Sink
	History   HistorySink
	Session   *Session
}

// Loop polls keys and runs one detection cycle per recognized stat key.
type Loop struct {
	deps  Deps
	opts  Options
	pool  *matchPool
	state atomic.Int32

	mu        sync.Mutex
	listeners []StateListener
}

// NewLoop constructs a loop and starts its worker pool.
func NewLoop(deps Deps, opts Options) *Loop {
	if deps.Session == nil {
		deps.Session = NewSession(nil, nil)
	}
	l := &Loop{deps: deps, opts: opts}
	if len(deps.Templates) > 0 {
		l.pool = newMatchPool(poolSize(len(deps.Templates), opts.Workers), deps.Logger)
	}
	return l
}

// AddListener registers l for state transitions.
func (l *Loop) AddListener(fn StateListener) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// Current returns the current state.
func (l *Loop) Current() State { return State(l.state.Load()) }

// Session returns the run context.
func (l *Loop) Session() *Session { return l.deps.Session }

// Close stops the worker pool. Run must have returned.
func (l *Loop) Close() {
	if l.pool != nil {
		l.pool.close()
	}
}

// Run polls until the stop key is pressed, the session is stopped elsewhere,
// or ctx is cancelled. Cycle failures are logged and never end the loop.
func (l *Loop) Run(ctx context.Context) error {
	s := l.deps.Session
	l.logInfo("detection loop started", "templates", len(l.deps.Templates), "extras", len(s.Extras))
	for {
		if ctx.Err() != nil || s.Stopped() {
			l.transition(StateStopped)
			l.logInfo("detection loop ended")
			return nil
		}
		if l.pressed(l.opts.StopKey) {
			l.transition(StateStopped)
			l.logInfo("stop key pressed", "key", l.opts.StopKey)
			s.Stop()
			return nil
		}
		if l.pressed(l.opts.ResetKey) {
			l.transition(StateResetRequested)
			if l.deps.Overlay != nil {
				l.deps.Overlay.ResetAll()
			}
			l.logInfo("overlay reset")
			l.sleep(ctx, l.opts.ResetDebounce)
			l.transition(StateIdle)
			continue
		}
		if b, ok := l.firstPressed(); ok {
			if _, err := l.safeCycle(ctx, b.Stat); err != nil {
				l.transition(StateIdle)
				if l.deps.Logger != nil {
					l.deps.Logger.Error("detection cycle failed", "stat", b.Stat, "error", err)
				}
				l.sleep(ctx, l.opts.ErrorBackoff)
				continue
			}
			l.sleep(ctx, l.opts.DetectDebounce)
			continue
		}
		l.sleep(ctx, l.opts.PollInterval)
	}
}

// firstPressed returns the first held stat key in binding order.
func (l *Loop) firstPressed() (Binding, bool) {
	for _, b := range l.opts.Bindings {
		if l.pressed(b.Key) {
			return b, true
		}
	}
	return Binding{}, false
}

func (l *Loop) pressed(key string) bool {
	return key != "" && l.deps.Keys != nil && l.deps.Keys.Pressed(key)
}

// safeCycle runs Cycle and converts a panic into an error.
func (l *Loop) safeCycle(ctx context.Context, stat string) (res CycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
			if l.deps.Logger != nil {
				l.deps.Logger.Error("cycle panic", "stat", stat, "error", r, "stack", string(debug.Stack()))
			}
		}
	}()
	return l.Cycle(ctx, stat)
}

// Cycle captures one frame, matches every template, scores the result for
// stat and reports it. The overlay is only updated when every step before it
// succeeded.
func (l *Loop) Cycle(ctx context.Context, stat string) (CycleResult, error) {
	start := time.Now()
	res := CycleResult{Stat: stat}
	if l.deps.Frames == nil {
		return res, fmt.Errorf("no frame source")
	}

	l.transition(StateCapturing)
	pair, err := l.deps.Frames.Acquire()
	if err != nil {
		return res, fmt.Errorf("capture: %w", err)
	}

	l.transition(StateMatching)
	frame := vision.NewFrame(pair.Gray)
	if frame == nil {
		return res, capture.ErrEmptyFrame
	}
	if l.pool != nil {
		perTemplate, err := l.pool.matchAll(frame, l.deps.Templates, l.opts.Threshold, l.opts.Suppression)
		if err != nil {
			return res, err
		}
		for _, ms := range perTemplate {
			res.Matches = append(res.Matches, ms...)
		}
	}
	res.Matches = append(res.Matches, matchExtras(frame, l.deps.Session.Extras, l.opts.RestrictedPrefix, l.opts.Threshold, l.opts.Suppression)...)

	l.transition(StateScoring)
	_, res.Breakdown = scoring.CalculateTraining(res.Matches, stat)
	res.DisplayNames = scoring.DisplayNames(res.Matches, res.Breakdown)

	l.transition(StateReporting)
	if l.deps.Snapshots != nil {
		path, err := l.deps.Snapshots.Write(pair.Color, res.Matches)
		if err != nil {
			return res, fmt.Errorf("snapshot: %w", err)
		}
		res.SnapshotPath = path
	}
	if l.deps.Overlay != nil {
		l.deps.Overlay.Set(stat, res.DisplayNames, res.Breakdown.Value)
	}
	res.Duration = time.Since(start)
	if l.deps.History != nil {
		if _, err := l.deps.History.Append(ctx, history.Entry{
			At:           pair.CapturedAt,
			Breakdown:    res.Breakdown,
			DisplayNames: res.DisplayNames,
			SnapshotPath: res.SnapshotPath,
			Duration:     res.Duration,
		}); err != nil && l.deps.Logger != nil {
			l.deps.Logger.Warn("history append failed", "stat", stat, "error", err)
		}
	}
	l.logInfo("training cycle",
		"stat", stat,
		"matches", res.DisplayNames,
		"value", res.Breakdown.Value,
		"breakdown", res.Breakdown.String(),
		"snapshot", res.SnapshotPath,
		"duration", res.Duration,
	)
	l.transition(StateIdle)
	return res, nil
}

func (l *Loop) transition(next State) {
	prev := State(l.state.Swap(int32(next)))
	if prev == next {
		return
	}
	if l.deps.Logger != nil {
		l.deps.Logger.Debug("training state transition", "from", prev.String(), "to", next.String())
	}
	l.mu.Lock()
	ls := append([]StateListener(nil), l.listeners...)
	l.mu.Unlock()
	for _, fn := range ls {
		fn(prev, next)
	}
}

// sleep waits d or until ctx is cancelled or the session stops.
func (l *Loop) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-l.deps.Session.Done():
	}
}

func (l *Loop) logInfo(msg string, args ...any) {
	if l.deps.Logger != nil {
		l.deps.Logger.Info(msg, args...)
	}
}
