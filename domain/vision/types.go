package vision

import (
	"image"
	"strings"
)

// SuppressionOrder selects the order in which candidate points are visited
// during duplicate suppression.
type SuppressionOrder int

const (
	// SuppressScore keeps the highest scoring point of each cluster.
	SuppressScore SuppressionOrder = iota
	// SuppressRaster keeps the first point of each cluster in row/column order.
	SuppressRaster
)

func (o SuppressionOrder) String() string {
	switch o {
	case SuppressScore:
		return "score"
	case SuppressRaster:
		return "raster"
	default:
		return "unknown"
	}
}

// ParseSuppression maps a config token to a SuppressionOrder. Unknown tokens
// fall back to SuppressScore.
func ParseSuppression(s string) SuppressionOrder {
	if strings.EqualFold(strings.TrimSpace(s), "raster") {
		return SuppressRaster
	}
	return SuppressScore
}

// Match is one retained detection of a template inside a frame.
type Match struct {
	Template string
	TopLeft  image.Point
	Width    int
	Height   int
	Score    float64
}

// Bounds returns the matched rectangle in frame coordinates.
func (m Match) Bounds() image.Rectangle {
	return image.Rect(m.TopLeft.X, m.TopLeft.Y, m.TopLeft.X+m.Width, m.TopLeft.Y+m.Height)
}

// SuppressionDistance is the minimum per-axis separation between two kept
// points of the same template.
func SuppressionDistance(w, h int) int {
	d := int(float64(min(w, h)) * 0.6)
	if d < 1 {
		return 1
	}
	return d
}
