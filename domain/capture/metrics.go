package capture

import "time"

// CaptureStats summarises acquisition behaviour for instrumentation.
type CaptureStats struct {
	Captures       uint64
	Failures       uint64
	AvgCapture     time.Duration
	AvgNormalize   time.Duration
	LastCapture    time.Time
	LatestFrameAge time.Duration
	Sequence       uint64
}
