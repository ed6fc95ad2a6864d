package training

import (
	"strings"

	"github.com/soocke/training-overlay/domain/vision"
)

// matchExtras runs the extra templates one after another. Templates whose
// name starts with prefix (case-insensitive) are only searched in the top
// half of the frame; all others use the full frame. Coordinates are frame
// coordinates either way.
func matchExtras(frame *vision.Frame, extras []*vision.Template, prefix string, threshold float64, order vision.SuppressionOrder) []vision.Match {
	if frame == nil {
		return nil
	}
	prefix = strings.ToLower(prefix)
	var out []vision.Match
	for _, t := range extras {
		if t == nil {
			continue
		}
		region := frame.Bounds()
		if prefix != "" && strings.HasPrefix(strings.ToLower(t.Name), prefix) {
			region = frame.TopHalf()
		}
		out = append(out, vision.MatchRegion(frame, t, threshold, region, order)...)
	}
	return out
}
