package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the primary screen, or a fixed region of it when
// Region is non-empty.
type ScreenGrabber struct {
	Region image.Rectangle
}

// NewScreenGrabber returns a grabber for the full screen.
func NewScreenGrabber() *ScreenGrabber { return &ScreenGrabber{} }

// Grab returns a freshly allocated screen capture.
func (g *ScreenGrabber) Grab() (*image.RGBA, error) {
	if g != nil && !g.Region.Empty() {
		screen, err := screenshot.ScreenRect()
		if err != nil {
			return nil, fmt.Errorf("capture: screen rect: %w", err)
		}
		r := g.Region.Intersect(screen)
		if r.Empty() {
			return nil, fmt.Errorf("capture: region out of bounds region=%v screen=%v", g.Region, screen)
		}
		img, err := screenshot.CaptureRect(r)
		if err != nil {
			return nil, fmt.Errorf("capture: region %v: %w", r, err)
		}
		return img, nil
	}
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture: full screen: %w", err)
	}
	return img, nil
}
