package vision

import (
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"testing"
)

// noiseGray returns a deterministic random grayscale image.
func noiseGray(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(rng.Intn(256))
	}
	return img
}

// paste copies src into dst with its top-left at (x, y).
func paste(dst, src *image.Gray, x, y int) {
	b := src.Bounds()
	for py := 0; py < b.Dy(); py++ {
		for px := 0; px < b.Dx(); px++ {
			dst.SetGray(x+px, y+py, src.GrayAt(b.Min.X+px, b.Min.Y+py))
		}
	}
}

func crop(src *image.Gray, r image.Rectangle) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			out.SetGray(x, y, src.GrayAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return out
}

func TestMatchAll_FindsEveryInstance(t *testing.T) {
	screen := noiseGray(120, 80, 1)
	patch := noiseGray(12, 12, 2)
	paste(screen, patch, 20, 30)
	paste(screen, patch, 70, 10)
	tmpl := NewTemplate("support", "support.png", patch)

	got := MatchAll(NewFrame(screen), tmpl, 0.89, SuppressScore)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
	// row/column order: (70,10) comes before (20,30)
	if got[0].TopLeft != image.Pt(70, 10) || got[1].TopLeft != image.Pt(20, 30) {
		t.Fatalf("unexpected positions %v %v", got[0].TopLeft, got[1].TopLeft)
	}
	for _, m := range got {
		if m.Score < 0.999 || m.Score > 1.0 {
			t.Fatalf("expected near-perfect score, got %v", m.Score)
		}
		if m.Width != 12 || m.Height != 12 || m.Template != "support" {
			t.Fatalf("bad match metadata %+v", m)
		}
	}
}

func TestMatchAll_ScoresNeverBelowThreshold(t *testing.T) {
	screen := noiseGray(60, 60, 3)
	tmpl := NewTemplate("noise", "", crop(screen, image.Rect(5, 5, 13, 13)))
	frame := NewFrame(screen)
	for _, th := range []float64{0.1, 0.3, 0.5, 0.89} {
		for _, m := range MatchAll(frame, tmpl, th, SuppressRaster) {
			if m.Score < th {
				t.Fatalf("threshold %v: score %v below threshold", th, m.Score)
			}
		}
	}
}

func TestMatchAll_KeptPointsRespectSuppressionDistance(t *testing.T) {
	screen := noiseGray(80, 80, 4)
	tmpl := NewTemplate("n", "", crop(screen, image.Rect(10, 10, 20, 20)))
	d := SuppressionDistance(tmpl.Width, tmpl.Height)
	for _, order := range []SuppressionOrder{SuppressScore, SuppressRaster} {
		got := MatchAll(NewFrame(screen), tmpl, 0.05, order)
		for i := range got {
			for j := i + 1; j < len(got); j++ {
				dx := abs(got[i].TopLeft.X - got[j].TopLeft.X)
				dy := abs(got[i].TopLeft.Y - got[j].TopLeft.Y)
				if dx < d && dy < d {
					t.Fatalf("%v: kept %v and %v within distance %d", order, got[i].TopLeft, got[j].TopLeft, d)
				}
			}
		}
	}
}

func TestMatchAll_TemplateLargerThanFrame(t *testing.T) {
	screen := noiseGray(10, 10, 5)
	tmpl := NewTemplate("big", "", noiseGray(11, 4, 6))
	if got := MatchAll(NewFrame(screen), tmpl, 0.5, SuppressScore); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestMatchAll_Deterministic(t *testing.T) {
	screen := noiseGray(90, 70, 7)
	patch := noiseGray(9, 9, 8)
	paste(screen, patch, 40, 40)
	tmpl := NewTemplate("p", "", patch)
	a := MatchAll(NewFrame(screen), tmpl, 0.89, SuppressScore)
	b := MatchAll(NewFrame(screen), tmpl, 0.89, SuppressScore)
	if len(a) == 0 || !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical non-empty results, got %v vs %v", a, b)
	}
}

func TestMatchRegion_TopHalfOnly(t *testing.T) {
	screen := noiseGray(60, 60, 9)
	patch := noiseGray(8, 8, 10)
	paste(screen, patch, 5, 4)
	paste(screen, patch, 30, 45)
	frame := NewFrame(screen)
	tmpl := NewTemplate("hint", "", patch)
	got := MatchRegion(frame, tmpl, 0.89, frame.TopHalf(), SuppressScore)
	if len(got) != 1 || got[0].TopLeft != image.Pt(5, 4) {
		t.Fatalf("expected single top-half match at (5,4), got %+v", got)
	}
}

func TestMatchRegion_ReportsFrameCoordinates(t *testing.T) {
	screen := noiseGray(60, 60, 11)
	patch := noiseGray(8, 8, 12)
	paste(screen, patch, 40, 35)
	frame := NewFrame(screen)
	got := MatchRegion(frame, NewTemplate("x", "", patch), 0.89, image.Rect(30, 30, 60, 60), SuppressScore)
	if len(got) != 1 || got[0].TopLeft != image.Pt(40, 35) {
		t.Fatalf("expected frame coordinates (40,35), got %+v", got)
	}
}

func TestMatchAll_FlatTemplate(t *testing.T) {
	screen := noiseGray(40, 40, 13)
	flat := image.NewGray(image.Rect(0, 0, 6, 6))
	for i := range flat.Pix {
		flat.Pix[i] = 200
	}
	paste(screen, flat, 10, 10)
	got := MatchAll(NewFrame(screen), NewTemplate("flat", "", flat), 0.9, SuppressScore)
	if len(got) != 1 || got[0].TopLeft != image.Pt(10, 10) || got[0].Score != 1 {
		t.Fatalf("expected one exact flat match, got %+v", got)
	}
}

func TestSuppress_Order(t *testing.T) {
	cands := []Match{
		{TopLeft: image.Pt(0, 0), Score: 0.90},
		{TopLeft: image.Pt(1, 1), Score: 0.95},
		{TopLeft: image.Pt(10, 10), Score: 0.92},
	}
	raster := suppress(cands, 5, SuppressRaster)
	if len(raster) != 2 || raster[0].TopLeft != image.Pt(0, 0) || raster[1].TopLeft != image.Pt(10, 10) {
		t.Fatalf("raster order kept %+v", raster)
	}
	byScore := suppress(cands, 5, SuppressScore)
	if len(byScore) != 2 || byScore[0].TopLeft != image.Pt(1, 1) || byScore[1].TopLeft != image.Pt(10, 10) {
		t.Fatalf("score order kept %+v", byScore)
	}
}

func TestSuppressionDistance(t *testing.T) {
	if d := SuppressionDistance(1, 1); d != 1 {
		t.Fatalf("expected floor of 1, got %d", d)
	}
	if d := SuppressionDistance(20, 10); d != 6 {
		t.Fatalf("expected 6, got %d", d)
	}
}

func TestNormalize_DropsAlphaAndDownscales(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			a := uint8(255)
			if x < 5 {
				a = 0
			}
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: a})
		}
	}
	g := Normalize(src, 1.0)
	if g.GrayAt(0, 0) != g.GrayAt(9, 0) {
		t.Fatalf("transparent pixel should gray like opaque one: %v vs %v", g.GrayAt(0, 0), g.GrayAt(9, 0))
	}
	if g.GrayAt(0, 0).Y < 50 {
		t.Fatalf("alpha was not dropped, got %v", g.GrayAt(0, 0))
	}
	half := Normalize(src, 0.5)
	if b := half.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("expected 5x3 after downscale, got %v", b)
	}
	if c := Downscale(image.NewRGBA(image.Rect(0, 0, 10, 6)), 0.5); c.Bounds().Dx() != 5 || c.Bounds().Dy() != 3 {
		t.Fatalf("color downscale size %v", c.Bounds())
	}
}
