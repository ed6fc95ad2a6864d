package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soocke/training-overlay/domain/vision"
)

func grayCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 40, 40, 40, 255
	}
	return img
}

func TestWriter_WritesAnnotatedPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	w := NewWriter(dir, nil)
	w.Now = func() time.Time { return time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC) }
	frame := grayCanvas(200, 120)
	m := vision.Match{Template: "kitasan", TopLeft: image.Pt(60, 50), Width: 30, Height: 20, Score: 0.934}

	path, err := w.Write(frame, []vision.Match{m})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "07-03-25-14-05-09.png" {
		t.Fatalf("unexpected file name %s", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	red := color.RGBAModel.Convert(img.At(60, 69)).(color.RGBA)
	if red.R != 255 || red.G != 0 || red.B != 0 {
		t.Fatalf("expected red box corner, got %v", red)
	}
	inner := color.RGBAModel.Convert(img.At(75, 60)).(color.RGBA)
	if inner.R != 40 {
		t.Fatalf("box interior should be untouched, got %v", inner)
	}
	above := color.RGBAModel.Convert(img.At(61, 50-2)).(color.RGBA)
	if above.R != 255 {
		t.Fatalf("expected label box above match, got %v", above)
	}
	if frame.RGBAAt(60, 50).R != 40 {
		t.Fatalf("source frame must not be modified")
	}
}

func TestLabel(t *testing.T) {
	if got := Label(vision.Match{Template: "hint", Score: 0.8949}); got != "hint 0.89" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestAnnotate_ClipsAtEdges(t *testing.T) {
	frame := grayCanvas(20, 20)
	Annotate(frame, []vision.Match{{Template: "edge", TopLeft: image.Pt(0, 0), Width: 30, Height: 30, Score: 1}}, nil)
	if frame.RGBAAt(0, 19).R != 255 {
		t.Fatalf("left edge should be drawn")
	}
}
