package enhance

import (
	"image"

	"github.com/disintegration/imaging"
)

const (
	lowPercentile  = 0.02
	highPercentile = 0.98
)

// stretchContrast remaps pixel values so the 2nd luminance percentile
// lands on black and the 98th on white. Percentile anchors instead of
// min/max keep a few hot or dead pixels from nullifying the stretch.
func stretchContrast(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return src
	}

	var hist [256]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*src.Stride + x*4
			lum := luma(src.Pix[o], src.Pix[o+1], src.Pix[o+2])
			hist[lum]++
		}
	}

	total := w * h
	lo := percentileLevel(hist, int(float64(total)*lowPercentile))
	hi := percentileLevel(hist, int(float64(total)*highPercentile))
	if hi <= lo {
		return src
	}

	// Precompute the per-level remap once.
	var lut [256]uint8
	span := hi - lo
	for v := 0; v < 256; v++ {
		s := (v - lo) * 255 / span
		if s < 0 {
			s = 0
		}
		if s > 255 {
			s = 255
		}
		lut[v] = uint8(s)
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*src.Stride + x*4
			oo := y*out.Stride + x*4
			out.Pix[oo] = lut[src.Pix[o]]
			out.Pix[oo+1] = lut[src.Pix[o+1]]
			out.Pix[oo+2] = lut[src.Pix[o+2]]
			out.Pix[oo+3] = src.Pix[o+3]
		}
	}
	return out
}

// percentileLevel returns the lowest luminance level at which the
// cumulative histogram reaches count.
func percentileLevel(hist [256]int, count int) int {
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if cum >= count {
			return v
		}
	}
	return 255
}

// luma computes BT.601 luminance rounded to the nearest level.
func luma(r, g, b uint8) int {
	return int(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b) + 0.5)
}
