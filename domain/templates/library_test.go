package templates

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func noiseImage(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = byte(rng.Intn(256))
		img.Pix[i+1] = byte(rng.Intn(256))
		img.Pix[i+2] = byte(rng.Intn(256))
		img.Pix[i+3] = 0xFF
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestLoad_SplitsMainAndExtras(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "kitasan.png"), noiseImage(20, 16, 1))
	writePNG(t, filepath.Join(dir, "director_akikawa.png"), noiseImage(20, 16, 2))
	writePNG(t, filepath.Join(dir, "hint.png"), noiseImage(12, 12, 3))
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lib, err := Load(dir, []string{"hint.png"}, 0.5, discardLogger)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lib.Len() != 2 {
		t.Fatalf("expected 2 main templates, got %d", lib.Len())
	}
	if lib.Main()[0].Name != "director_akikawa" || lib.Main()[1].Name != "kitasan" {
		t.Fatalf("main not sorted by name: %s, %s", lib.Main()[0].Name, lib.Main()[1].Name)
	}
	if len(lib.Extras()) != 1 || lib.Extras()[0].Name != "hint" {
		t.Fatalf("expected hint extra, got %+v", lib.Extras())
	}
	if m := lib.Main()[1]; m.Width != 10 || m.Height != 8 {
		t.Fatalf("expected 10x8 after downscale, got %dx%d", m.Width, m.Height)
	}
	if lib.Dir() != dir {
		t.Fatalf("unexpected dir %q", lib.Dir())
	}
}

func TestLoad_DropsAlpha(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: uint8(x * 60)})
		}
	}
	writePNG(t, filepath.Join(dir, "ghost.png"), img)
	lib, err := Load(dir, nil, 1.0, discardLogger)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g := lib.Main()[0].Gray
	for x := 0; x < 4; x++ {
		if v := g.GrayAt(x, 0).Y; v < 190 || v > 210 {
			t.Fatalf("pixel %d: expected ~200 regardless of alpha, got %d", x, v)
		}
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"), nil, 0.5, discardLogger)
	if !errors.Is(err, ErrLibraryMissing) {
		t.Fatalf("expected ErrLibraryMissing, got %v", err)
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	lib, err := Load(t.TempDir(), []string{"hint.png"}, 0.5, discardLogger)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lib.Len() != 0 || len(lib.Extras()) != 0 {
		t.Fatalf("expected empty library, got %d/%d", lib.Len(), len(lib.Extras()))
	}
}

func TestHashIndex_FlagsDuplicates(t *testing.T) {
	h := newHashIndex(discardLogger)
	a := noiseImage(32, 32, 7)
	if h.check("a", a) {
		t.Fatalf("first template cannot be a duplicate")
	}
	if !h.check("a_copy", a) {
		t.Fatalf("identical template should be flagged")
	}
}

func TestLibrary_NilSafe(t *testing.T) {
	var l *Library
	if l.Len() != 0 || l.Main() != nil || l.Extras() != nil || l.Dir() != "" {
		t.Fatalf("nil library should be empty")
	}
}
