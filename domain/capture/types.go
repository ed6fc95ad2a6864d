package capture

import (
	"errors"
	"image"
	"time"
)

// ErrEmptyFrame is returned when a grab yields no pixels.
var ErrEmptyFrame = errors.New("capture: empty frame")

// Grabber acquires one raw screen frame on demand.
type Grabber interface {
	Grab() (*image.RGBA, error)
}

// GrabberFunc adapts a plain function to Grabber.
type GrabberFunc func() (*image.RGBA, error)

func (f GrabberFunc) Grab() (*image.RGBA, error) { return f() }

// FramePair is the normalized grayscale frame used for matching together with
// the color frame at the same scale used for debug snapshots.
type FramePair struct {
	Gray       *image.Gray
	Color      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Size returns the dimensions shared by both frames.
func (p FramePair) Size() image.Point {
	if p.Gray == nil {
		return image.Point{}
	}
	return p.Gray.Bounds().Size()
}

// FrameSource produces frame pairs for the detection loop.
type FrameSource interface {
	Acquire() (FramePair, error)
}
