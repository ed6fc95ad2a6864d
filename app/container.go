package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/soocke/training-overlay/config"
	"github.com/soocke/training-overlay/domain/capture"
	"github.com/soocke/training-overlay/domain/history"
	"github.com/soocke/training-overlay/domain/input"
	"github.com/soocke/training-overlay/domain/snapshot"
	"github.com/soocke/training-overlay/domain/templates"
	"github.com/soocke/training-overlay/domain/training"
	"github.com/soocke/training-overlay/ui/model"
	"github.com/soocke/training-overlay/ui/overlay"
)

// ErrLibraryEmpty is returned when the templates directory holds no main templates.
var ErrLibraryEmpty = errors.New("template library is empty")

// AppContainer assembles the services, the detection loop and the overlay state.
type AppContainer struct {
	Config    *config.Config
	Logger    *slog.Logger
	Library   *templates.Library
	Capture   *capture.Service
	Keys      input.KeySource
	Focus     *input.FocusGate
	History   *history.Store
	Overlay   *overlay.Store
	SessionMd *model.SessionModel
	Session   *training.Session
	Loop      *training.Loop
}

// BuildContainer constructs all components. Side effects are limited to
// reading the template library and creating the debug and history locations.
func BuildContainer(cfg *config.Config, logger *slog.Logger) (*AppContainer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	_ = cfg.Validate()
	if logger == nil {
		logger = slog.Default()
	}
	c := &AppContainer{Config: cfg, Logger: logger}

	lib, err := templates.Load(cfg.TemplatesDir, cfg.ExtraTemplates, cfg.DownscaleFactor, logger)
	if err != nil {
		return nil, err
	}
	if len(lib.Main()) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLibraryEmpty, cfg.TemplatesDir)
	}
	c.Library = lib
	logger.Info("template library loaded", "dir", lib.Dir(), "main", len(lib.Main()), "extras", len(lib.Extras()))

	opts := training.OptionsFromConfig(cfg)
	keys, err := input.NewKeySource(opts.Keys(), logger)
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	c.Keys = keys
	if cfg.FocusWindow != "" {
		c.Focus = input.NewFocusGate(keys, cfg.FocusWindow, logger, nil, cfg.StopKey)
		c.Keys = c.Focus
	}

	grabber := capture.NewScreenGrabber()
	grabber.Region = cfg.CaptureRegion()
	c.Capture = capture.NewService(grabber, cfg.DownscaleFactor, logger)
	c.Overlay = overlay.NewStore()
	c.SessionMd = model.NewSessionModel()
	c.Session = training.NewSession(lib.Extras(), func() {
		logger.Info("session stopped")
	})

	deps := training.Deps{
		Logger:    logger,
		Templates: lib.Main(),
		Keys:      c.Keys,
		Frames:    c.Capture,
		Overlay:   recordingOverlay{store: c.Overlay, session: c.SessionMd},
		Session:   c.Session,
	}
	if cfg.Snapshots {
		if err := os.MkdirAll(cfg.DebugDir, 0o755); err != nil {
			return nil, fmt.Errorf("debug dir: %w", err)
		}
		deps.Snapshots = snapshot.NewWriter(cfg.DebugDir, logger)
	}
	if cfg.HistoryPath != "" {
		h, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		c.History = h
		deps.History = h
		logHistoryBest(h, cfg, logger)
	}
	c.Loop = training.NewLoop(deps, opts)
	return c, nil
}

// Close releases the worker pool, focus polling and the history database.
// The detection loop must have returned.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	if c.Loop != nil {
		c.Loop.Close()
	}
	if c.Focus != nil {
		c.Focus.Stop()
	}
	if c.History != nil {
		if err := c.History.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("history close failed", "error", err)
		}
	}
}

// recordingOverlay forwards to the overlay store and counts cycles for the session stats.
type recordingOverlay struct {
	store   *overlay.Store
	session *model.SessionModel
}

func (r recordingOverlay) Set(stat string, names []string, value float64) {
	r.store.Set(stat, names, value)
	r.session.OnCycle(stat, value)
}

func (r recordingOverlay) ResetAll() { r.store.ResetAll() }

// logHistoryBest reports the best recorded value per configured stat.
func logHistoryBest(h *history.Store, cfg *config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, k := range cfg.Keys {
		v, ok, err := h.Best(ctx, k.Stat)
		if err != nil {
			logger.Warn("history best query failed", "stat", k.Stat, "error", err)
			return
		}
		if ok {
			logger.Info("history best", "stat", k.Stat, "value", v)
		}
	}
}
