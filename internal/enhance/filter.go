package enhance

import (
	"image"

	"github.com/disintegration/imaging"
)

// applyFilter converts the image to the requested output mode.
func applyFilter(img image.Image, mode FilterMode) *image.NRGBA {
	switch mode {
	case FilterGrayscale:
		return imaging.Grayscale(img)
	case FilterBlackWhite:
		return binarizeAdaptive(imaging.Grayscale(img))
	default:
		return imaging.Clone(img)
	}
}

const (
	// Bradley adaptive threshold parameters: window size relative to
	// the longer image side and the relative darkness required to mark
	// a pixel as ink.
	bradleyWindowDivisor = 8
	bradleyBias          = 0.85
)

// binarizeAdaptive thresholds a grayscale image with Bradley's integral
// image method: a pixel becomes black when it is noticeably darker than
// the mean of its surrounding window. Output is pure black and white
// and deterministic for a given input.
func binarizeAdaptive(gray *image.NRGBA) *image.NRGBA {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return gray
	}

	// Summed-area table over the red channel (equal to luminance in a
	// grayscale image). One extra row/column of zeros simplifies sums.
	integral := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(gray.Pix[y*gray.Stride+x*4])
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}

	half := maxDim(w, h) / bradleyWindowDivisor / 2
	if half < 1 {
		half = 1
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0 := x - half
			y0 := y - half
			x1 := x + half
			y1 := y + half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			if y1 >= h {
				y1 = h - 1
			}
			count := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*(w+1)+(x1+1)] -
				integral[(y0)*(w+1)+(x1+1)] -
				integral[(y1+1)*(w+1)+(x0)] +
				integral[(y0)*(w+1)+(x0)]

			v := uint64(gray.Pix[y*gray.Stride+x*4])
			var level uint8
			if float64(v*count) >= float64(sum)*bradleyBias {
				level = 255
			}
			oo := y*out.Stride + x*4
			out.Pix[oo] = level
			out.Pix[oo+1] = level
			out.Pix[oo+2] = level
			out.Pix[oo+3] = 255
		}
	}
	return out
}
