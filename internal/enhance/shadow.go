package enhance

import (
	"errors"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// removeShadows flattens uneven illumination. A heavily blurred copy of
// the image approximates the illumination field; dividing each channel
// by it lifts shadowed regions toward the paper white while leaving
// already-bright regions untouched.
func removeShadows(img image.Image) (*image.NRGBA, error) {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return nil, errors.New("image too small for illumination estimate")
	}

	// The blur radius must dwarf text features so glyphs do not bleed
	// into the illumination estimate.
	radius := float64(maxDim(w, h)) / 16.0
	if radius < 8 {
		radius = 8
	}
	background := imaging.Clone(blur.Gaussian(src, radius))

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*src.Stride + x*4
			bo := y*background.Stride + x*4
			oo := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				v := int(src.Pix[o+c])
				bg := int(background.Pix[bo+c])
				if bg < 1 {
					bg = 1
				}
				// Normalize against the illumination field, treating
				// the field value as the local white point.
				scaled := v * 255 / bg
				if scaled > 255 {
					scaled = 255
				}
				// Never darken: shadows lift, highlights stay.
				if scaled < v {
					scaled = v
				}
				out.Pix[oo+c] = uint8(scaled)
			}
			out.Pix[oo+3] = src.Pix[o+3]
		}
	}
	return out, nil
}

func maxDim(a, b int) int {
	if a > b {
		return a
	}
	return b
}
