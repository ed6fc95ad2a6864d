package input

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var errNoForeground = errors.New("no foreground window")

// FocusGate wraps a KeySource and suppresses presses while the foreground
// window title does not contain Window. Exempt keys always pass through.
type FocusGate struct {
	Inner      KeySource
	Window     string
	Logger     *slog.Logger
	Foreground func() (string, error)
	exempt     map[string]struct{}
	interval   time.Duration
	focused    atomic.Bool
	running    atomic.Bool
	done       chan struct{}
	stopOnce   sync.Once
	lastTitle  string // last foreground title seen (lower-cased)
}

// NewFocusGate constructs a gate. fg defaults to ForegroundWindowTitle.
func NewFocusGate(inner KeySource, window string, logger *slog.Logger, fg func() (string, error), exempt ...string) *FocusGate {
	if fg == nil {
		fg = ForegroundWindowTitle
	}
	g := &FocusGate{
		Inner:      inner,
		Window:     strings.ToLower(strings.TrimSpace(window)),
		Logger:     logger,
		Foreground: fg,
		exempt:     make(map[string]struct{}, len(exempt)),
		interval:   250 * time.Millisecond,
	}
	for _, k := range exempt {
		g.exempt[k] = struct{}{}
	}
	return g
}

// Pressed implements KeySource.
func (g *FocusGate) Pressed(key string) bool {
	if g == nil || g.Inner == nil {
		return false
	}
	if _, ok := g.exempt[key]; ok || g.Window == "" {
		return g.Inner.Pressed(key)
	}
	return g.focused.Load() && g.Inner.Pressed(key)
}

// Focused reports the last observed focus state.
func (g *FocusGate) Focused() bool { return g != nil && g.focused.Load() }

// Start polls the foreground window in a background goroutine.
func (g *FocusGate) Start() {
	if g == nil || g.Window == "" || g.running.Load() {
		return
	}
	g.done = make(chan struct{})
	g.running.Store(true)
	g.poll()
	go g.loop()
}

// Stop ends polling. Safe to call more than once.
func (g *FocusGate) Stop() {
	if g == nil || !g.running.Load() {
		return
	}
	g.stopOnce.Do(func() {
		close(g.done)
		g.running.Store(false)
	})
}

func (g *FocusGate) loop() {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			g.poll()
		case <-g.done:
			return
		}
	}
}

func (g *FocusGate) poll() {
	title, err := g.Foreground()
	if err != nil {
		g.focused.Store(false)
		return
	}
	current := strings.ToLower(strings.TrimSpace(title))
	if current == g.lastTitle {
		return
	}
	g.lastTitle = current
	focused := current != "" && strings.Contains(current, g.Window)
	if g.focused.Swap(focused) != focused && g.Logger != nil {
		g.Logger.Debug("focus changed", "window", title, "focused", focused)
	}
}
