package vision

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"
)

// Normalize converts img to 8-bit grayscale and downscales it by factor.
// Alpha is discarded before conversion. Templates and live frames must both
// go through this function so their pixel grids share one scale.
func Normalize(img image.Image, factor float64) *image.Gray {
	if img == nil {
		return nil
	}
	src := dropAlpha(img)
	b := src.Bounds()
	filters := []gift.Filter{gift.Grayscale()}
	if w, h := ScaledSize(b.Dx(), b.Dy(), factor); w != b.Dx() || h != b.Dy() {
		filters = append(filters, gift.Resize(w, h, gift.LinearResampling))
	}
	g := gift.New(filters...)
	dst := image.NewGray(g.Bounds(b))
	g.Draw(dst, src)
	return dst
}

// Downscale resizes a color frame by factor using the same resampling as Normalize.
func Downscale(img image.Image, factor float64) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), factor)
	g := gift.New()
	if w != b.Dx() || h != b.Dy() {
		g.Add(gift.Resize(w, h, gift.LinearResampling))
	}
	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}

// ScaledSize returns the rounded size of a w x h image scaled by factor, never below 1x1.
func ScaledSize(w, h int, factor float64) (int, int) {
	if factor <= 0 || factor == 1.0 {
		return w, h
	}
	sw := int(math.Round(float64(w) * factor))
	sh := int(math.Round(float64(h) * factor))
	return max(sw, 1), max(sh, 1)
}

// dropAlpha returns img unchanged when it is already opaque, otherwise an
// NRGBA copy whose color channels are kept and alpha forced to 255.
func dropAlpha(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			c.A = 0xFF
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
