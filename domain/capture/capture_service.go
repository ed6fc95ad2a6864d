package capture

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/training-overlay/domain/vision"
)

const captureStatsLogInterval = 30 * time.Second

// Service turns raw grabs into frame pairs at the configured downscale factor
// and keeps acquisition statistics. Use NewService to construct an instance.
type Service struct {
	grabber Grabber
	factor  float64
	logger  *slog.Logger

	captures       atomic.Uint64
	failures       atomic.Uint64
	captureNanos   atomic.Uint64
	normalizeNanos atomic.Uint64
	sequence       atomic.Uint64
	lastCapture    atomic.Int64 // unix nanos
	lastLog        atomic.Int64 // unix nanos
}

// NewService constructs a frame source backed by grabber.
func NewService(grabber Grabber, factor float64, logger *slog.Logger) *Service {
	return &Service{grabber: grabber, factor: factor, logger: logger}
}

// Acquire grabs one frame and returns its grayscale and color versions, both
// downscaled by the service factor.
func (s *Service) Acquire() (FramePair, error) {
	if s == nil || s.grabber == nil {
		return FramePair{}, fmt.Errorf("capture: no grabber configured")
	}
	start := time.Now()
	raw, err := s.grabber.Grab()
	if err != nil {
		s.failures.Add(1)
		return FramePair{}, err
	}
	if raw == nil || raw.Bounds().Empty() {
		s.failures.Add(1)
		return FramePair{}, ErrEmptyFrame
	}
	grabbed := time.Now()
	s.captureNanos.Add(uint64(grabbed.Sub(start).Nanoseconds()))

	pair := FramePair{
		Gray:       vision.Normalize(raw, s.factor),
		Color:      vision.Downscale(raw, s.factor),
		CapturedAt: grabbed,
		Sequence:   s.sequence.Add(1),
	}
	s.normalizeNanos.Add(uint64(time.Since(grabbed).Nanoseconds()))
	s.captures.Add(1)
	s.lastCapture.Store(grabbed.UnixNano())
	s.maybeLogStats(grabbed)
	return pair, nil
}

// Stats returns a snapshot of the acquisition counters.
func (s *Service) Stats() CaptureStats {
	if s == nil {
		return CaptureStats{}
	}
	captures := s.captures.Load()
	var avg, avgNorm time.Duration
	if captures > 0 {
		avg = time.Duration(s.captureNanos.Load() / captures)
		avgNorm = time.Duration(s.normalizeNanos.Load() / captures)
	}
	var last time.Time
	var age time.Duration
	if ns := s.lastCapture.Load(); ns != 0 {
		last = time.Unix(0, ns)
		age = time.Since(last)
	}
	return CaptureStats{
		Captures:       captures,
		Failures:       s.failures.Load(),
		AvgCapture:     avg,
		AvgNormalize:   avgNorm,
		LastCapture:    last,
		LatestFrameAge: age,
		Sequence:       s.sequence.Load(),
	}
}

func (s *Service) maybeLogStats(now time.Time) {
	if s.logger == nil {
		return
	}
	prev := s.lastLog.Load()
	if prev != 0 && now.Sub(time.Unix(0, prev)) < captureStatsLogInterval {
		return
	}
	if !s.lastLog.CompareAndSwap(prev, now.UnixNano()) {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_capture", stats.AvgCapture,
		"avg_normalize", stats.AvgNormalize,
	)
}

// Static grabber used by tests and replays: returns a copy of img on every grab.
type staticGrabber struct{ img *image.RGBA }

// NewStaticGrabber returns a Grabber that always yields a copy of img.
func NewStaticGrabber(img *image.RGBA) Grabber { return staticGrabber{img: img} }

func (g staticGrabber) Grab() (*image.RGBA, error) {
	if g.img == nil {
		return nil, ErrEmptyFrame
	}
	return CloneFrame(g.img), nil
}
