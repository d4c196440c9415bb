package enhance

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

const (
	unsharpRadius = 1.5
	unsharpAmount = 0.6
)

// sharpen applies a mild unsharp mask tuned for scanned text: enough
// to crisp glyph edges without ringing on photographs.
func sharpen(img image.Image) *image.NRGBA {
	return imaging.Clone(effect.UnsharpMask(img, unsharpRadius, unsharpAmount))
}
