package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/soocke/training-overlay/domain/capture"
	"github.com/soocke/training-overlay/domain/vision"
)

// FileLayout is the time layout used for snapshot file names (dd-mm-yy-HH-MM-SS).
const FileLayout = "02-01-06-15-04-05"

const (
	boxStroke = 2
	labelPad  = 3
)

var (
	boxColor   = color.RGBA{R: 0xFF, A: 0xFF}
	labelColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Sink consumes one annotated frame per detection cycle.
type Sink interface {
	Write(frame *image.RGBA, matches []vision.Match) (string, error)
}

// Writer stores annotated PNG snapshots in Dir.
type Writer struct {
	Dir    string
	Now    func() time.Time
	Face   font.Face
	logger *slog.Logger
}

// NewWriter returns a Writer for dir using the 7x13 bitmap face.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{Dir: dir, Now: time.Now, Face: basicfont.Face7x13, logger: logger}
}

// Write draws a box and a "{name} {score}" label for every match onto a copy
// of frame and saves it as <Dir>/<dd-mm-yy-HH-MM-SS>.png. Snapshots taken in
// the same second overwrite each other. It returns the written path.
func (w *Writer) Write(frame *image.RGBA, matches []vision.Match) (string, error) {
	if frame == nil {
		return "", capture.ErrEmptyFrame
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot dir: %w", err)
	}
	canvas := capture.CloneFrame(frame)
	defer capture.RecycleFrame(canvas)
	Annotate(canvas, matches, w.face())

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	path := filepath.Join(w.Dir, now().Format(FileLayout)+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("snapshot create: %w", err)
	}
	if err := png.Encode(f, canvas); err != nil {
		f.Close()
		return "", fmt.Errorf("snapshot encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("snapshot close: %w", err)
	}
	if w.logger != nil {
		w.logger.Debug("snapshot saved", "path", path, "matches", len(matches))
	}
	return path, nil
}

func (w *Writer) face() font.Face {
	if w.Face == nil {
		return basicfont.Face7x13
	}
	return w.Face
}

// Annotate draws match boxes and labels in place.
func Annotate(dst draw.Image, matches []vision.Match, face font.Face) {
	if face == nil {
		face = basicfont.Face7x13
	}
	for _, m := range matches {
		strokeRect(dst, m.Bounds(), boxStroke, boxColor)
		drawLabel(dst, m, face)
	}
}

// Label returns the caption drawn above a match.
func Label(m vision.Match) string {
	return fmt.Sprintf("%s %.2f", m.Template, m.Score)
}

func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

func drawLabel(dst draw.Image, m vision.Match, face font.Face) {
	text := Label(m)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor), Face: face}
	tw := d.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	x, y := m.TopLeft.X, m.TopLeft.Y
	top := max(y-ascent-2*labelPad, 0)
	box := image.Rect(x, top, x+tw+2*labelPad, max(y, top+ascent+2*labelPad))
	draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(boxColor), image.Point{}, draw.Src)
	d.Dot = fixed.P(x+labelPad, top+labelPad+ascent)
	d.DrawString(text)
}
