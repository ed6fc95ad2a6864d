package vision

import (
	"image"
	"math"
	"sort"
)

// flatVariance is the per-pixel variance below which a window or template is
// treated as a single flat color.
const flatVariance = 1e-6

// Frame stores per-frame grayscale values and their summed-area tables
// (integral images). The integrals allow O(1) window sum and variance queries.
// A Frame is read-only after NewFrame and may be shared between goroutines.
type Frame struct {
	gray       []float64 // per pixel grayscale (length W*H)
	integral   []float64 // summed-area table of grayscale
	integralSq []float64 // summed-area table of grayscale squared
	W, H       int
}

// NewFrame computes the grayscale plane and its summed-area tables.
func NewFrame(g *image.Gray) *Frame {
	if g == nil {
		return nil
	}
	b := g.Bounds()
	W, H := b.Dx(), b.Dy()
	need := W * H
	f := &Frame{
		gray:       make([]float64, need),
		integral:   make([]float64, need),
		integralSq: make([]float64, need),
		W:          W,
		H:          H,
	}
	for y := 0; y < H; y++ {
		var rowSum, rowSum2 float64
		row := g.Pix[y*g.Stride : y*g.Stride+W]
		for x := 0; x < W; x++ {
			v := float64(row[x])
			off := y*W + x
			f.gray[off] = v
			rowSum += v
			rowSum2 += v * v
			if y == 0 {
				f.integral[off] = rowSum
				f.integralSq[off] = rowSum2
			} else {
				f.integral[off] = f.integral[(y-1)*W+x] + rowSum
				f.integralSq[off] = f.integralSq[(y-1)*W+x] + rowSum2
			}
		}
	}
	return f
}

// Bounds returns the frame rectangle anchored at the origin.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.W, f.H) }

// TopHalf returns the upper half of the frame.
func (f *Frame) TopHalf() image.Rectangle { return image.Rect(0, 0, f.W, f.H/2) }

// integralSum returns the inclusive sum over rectangle [x0..x1] x [y0..y1]
// from an integral image stored in row-major order with width W.
func integralSum(I []float64, W int, x0, y0, x1, y1 int) float64 {
	if x0 > x1 || y0 > y1 {
		return 0
	}
	A := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return I[y*W+x]
	}
	return A(x1, y1) - A(x0-1, y1) - A(x1, y0-1) + A(x0-1, y0-1)
}

// Template is a normalized grayscale reference image. It is immutable after
// NewTemplate and safe for concurrent matching.
type Template struct {
	Name   string
	Path   string
	Gray   *image.Gray
	Width  int
	Height int

	zero  []float64 // template values minus their mean
	mean  float64
	normT float64 // sqrt(sum of squared zero-mean values)
	flat  bool
}

// NewTemplate builds a Template and precomputes its correlation statistics.
func NewTemplate(name, path string, g *image.Gray) *Template {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &Template{Name: name, Path: path, Gray: g, Width: w, Height: h}
	n := w * h
	if n == 0 {
		t.flat = true
		return t
	}
	vals := make([]float64, n)
	var sum float64
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for x := 0; x < w; x++ {
			v := float64(row[x])
			vals[y*w+x] = v
			sum += v
		}
	}
	t.mean = sum / float64(n)
	var ss float64
	for i, v := range vals {
		z := v - t.mean
		vals[i] = z
		ss += z * z
	}
	t.zero = vals
	t.normT = math.Sqrt(ss)
	t.flat = ss/float64(n) <= flatVariance
	return t
}

// MatchAll finds every placement of tmpl in frame scoring at least threshold
// and removes near-duplicates.
func MatchAll(frame *Frame, tmpl *Template, threshold float64, order SuppressionOrder) []Match {
	if frame == nil {
		return nil
	}
	return MatchRegion(frame, tmpl, threshold, frame.Bounds(), order)
}

// MatchRegion is MatchAll restricted to placements fully inside region.
// Returned coordinates are frame coordinates.
func MatchRegion(frame *Frame, tmpl *Template, threshold float64, region image.Rectangle, order SuppressionOrder) []Match {
	if frame == nil || tmpl == nil || tmpl.Width == 0 || tmpl.Height == 0 {
		return nil
	}
	r := region.Intersect(frame.Bounds())
	w, h := tmpl.Width, tmpl.Height
	if r.Dx() < w || r.Dy() < h {
		return nil
	}
	var cands []Match
	for y := r.Min.Y; y <= r.Max.Y-h; y++ {
		for x := r.Min.X; x <= r.Max.X-w; x++ {
			score, ok := frame.score(tmpl, x, y)
			if !ok || score < threshold {
				continue
			}
			cands = append(cands, Match{
				Template: tmpl.Name,
				TopLeft:  image.Pt(x, y),
				Width:    w,
				Height:   h,
				Score:    score,
			})
		}
	}
	return suppress(cands, SuppressionDistance(w, h), order)
}

// score computes the normalized correlation coefficient (TM_CCOEFF_NORMED)
// of tmpl placed at (x, y). ok is false when the score is undefined.
func (f *Frame) score(t *Template, x, y int) (float64, bool) {
	w, h := t.Width, t.Height
	n := float64(w * h)
	sumF := integralSum(f.integral, f.W, x, y, x+w-1, y+h-1)
	sumF2 := integralSum(f.integralSq, f.W, x, y, x+w-1, y+h-1)
	ssF := sumF2 - sumF*sumF/n
	flatF := ssF/n <= flatVariance
	if t.flat {
		if flatF && math.Abs(sumF/n-t.mean) < 0.5 {
			return 1, true
		}
		return 0, false
	}
	if flatF {
		return 0, false
	}
	var dot float64
	for py := 0; py < h; py++ {
		row := f.gray[(y+py)*f.W+x : (y+py)*f.W+x+w]
		trow := t.zero[py*w : (py+1)*w]
		for px, v := range row {
			dot += v * trow[px]
		}
	}
	s := dot / (math.Sqrt(ssF) * t.normT)
	if s > 1 {
		s = 1
	}
	return s, true
}

// suppress applies greedy spatial suppression. A candidate is discarded when
// it lies closer than dist to an already kept point in both axes. Kept points
// are returned in row/column order.
func suppress(cands []Match, dist int, order SuppressionOrder) []Match {
	if len(cands) == 0 {
		return nil
	}
	visit := make([]Match, len(cands))
	copy(visit, cands)
	sort.SliceStable(visit, func(i, j int) bool {
		a, b := visit[i].TopLeft, visit[j].TopLeft
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	if order == SuppressScore {
		sort.SliceStable(visit, func(i, j int) bool { return visit[i].Score > visit[j].Score })
	}
	kept := make([]Match, 0, 4)
	for _, c := range visit {
		dup := false
		for _, k := range kept {
			if abs(c.TopLeft.X-k.TopLeft.X) < dist && abs(c.TopLeft.Y-k.TopLeft.Y) < dist {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].TopLeft, kept[j].TopLeft
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return kept
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
