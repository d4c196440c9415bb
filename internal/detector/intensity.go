package detector

import (
	"image"

	"github.com/MeKo-Tech/descan/internal/mempool"
	"github.com/disintegration/imaging"
)

// luminanceMap converts an image to a single-channel intensity map in
// [0,1] using ITU-R BT.601 weights. The caller must return the buffer
// via mempool.PutFloat32.
func luminanceMap(img image.Image) ([]float32, int, int) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	lum := mempool.GetFloat32(w * h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < w; x++ {
			o := x * 4
			r := float32(row[o])
			g := float32(row[o+1])
			bl := float32(row[o+2])
			lum[y*w+x] = (0.299*r + 0.587*g + 0.114*bl) / 255.0
		}
	}
	return lum, w, h
}

// downscaleForAnalysis shrinks the image so its longest side is at most
// maxDim, preserving aspect ratio. Returns the image unchanged when it
// already fits.
func downscaleForAnalysis(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDim, imaging.Lanczos)
}

// smoothLuminance applies a small box blur to suppress sensor noise
// before thresholding. Radius 1 gives a 3x3 kernel.
func smoothLuminance(lum []float32, w, h int) []float32 {
	out := mempool.GetFloat32(w * h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			var n float32
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					sum += lum[yy*w+xx]
					n++
				}
			}
			out[y*w+x] = sum / n
		}
	}
	return out
}
