package app

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	diag "github.com/soocke/training-overlay/debug"
	"github.com/soocke/training-overlay/ui/presenter"
	"github.com/soocke/training-overlay/ui/view"
)

const (
	diagInterval = 5 * time.Second
	shutdownWait = 2 * time.Second
)

type app struct {
	c     *AppContainer
	view  *view.OverlayView
	loop  *presenter.Loop
	every time.Duration
}

// Run starts the detection loop in the background and blocks in the Tk event
// loop until the overlay closes. The overlay closes when the stop key is
// pressed, the window is closed, or ctx is cancelled.
func Run(ctx context.Context, c *AppContainer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cfg, logger := c.Config, c.Logger

	if c.Focus != nil {
		c.Focus.Start()
	}
	if cfg.Debug {
		diag.StartMemLogger(ctx, diagInterval, logger)
		diag.StartGoroutineLogger(ctx, diagInterval, logger)
	}

	a := &app{c: c, every: cfg.RenderInterval()}
	a.view = view.NewOverlayView(cfg, logger)
	a.view.Build(c.Session.Stop)

	state := presenter.NewStatePresenter(a.view)
	c.Loop.AddListener(state.OnState)
	a.loop = presenter.NewLoop(
		presenter.NewOverlayPresenter(c.Overlay, c.Session, a.view, cfg.GoodTraining),
		state,
		presenter.NewSessionPresenter(c.SessionMd, c.Session, a.view),
		a.scheduleUpdate,
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Whatever ends the loop also ends the run, so the overlay closes on the next tick.
		defer c.Session.Stop()
		defer recoverLog(logger, "detection loop")
		if err := c.Loop.Run(ctx); err != nil {
			logger.Error("detection loop failed", "error", err)
		}
	}()

	a.loop.Tick()
	App.Wait()

	c.Session.Stop()
	cancel()
	select {
	case <-done:
		c.Close()
	case <-time.After(shutdownWait):
		// The cycle still owns the worker pool; leave it to process exit.
		logger.Warn("detection loop did not stop in time", "wait", shutdownWait)
	}
	return nil
}

// scheduleUpdate queues the next render tick on Tk's event loop thread.
func (a *app) scheduleUpdate() {
	TclAfter(a.every, a.loop.Tick)
}

func recoverLog(logger *slog.Logger, where string) {
	if r := recover(); r != nil {
		logger.Error("goroutine panic", "where", where, "error", r, "stack", string(debug.Stack()))
	}
}
