package rectify

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/disintegration/imaging"
)

// warpPerspective maps the quadrilateral region srcQuad from src into
// an upright dstW x dstH rectangle using the inverse homography and
// bilinear sampling. Rows are split across workers.
func warpPerspective(src image.Image, srcQuad [4]geometry.PixelPoint, dstW, dstH int) *image.NRGBA {
	if dstW <= 0 || dstH <= 0 {
		return nil
	}

	// Homography from dst rect corners to src quad corners, both in
	// top-left, top-right, bottom-right, bottom-left order.
	dst := [4]geometry.PixelPoint{
		{X: 0, Y: 0},
		{X: float64(dstW - 1), Y: 0},
		{X: float64(dstW - 1), Y: float64(dstH - 1)},
		{X: 0, Y: float64(dstH - 1)},
	}
	H, ok := computeHomography(dst, srcQuad)
	if !ok {
		return nil
	}

	nrgba := imaging.Clone(src)
	out := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))

	workers := runtime.NumCPU()
	if workers > dstH {
		workers = dstH
	}
	rowsPer := (dstH + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		y0 := w * rowsPer
		y1 := y0 + rowsPer
		if y1 > dstH {
			y1 = dstH
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < dstW; x++ {
					sx, sy := applyHomography(H, float64(x), float64(y))
					c := bilinearSample(nrgba, sx, sy)
					o := y*out.Stride + x*4
					out.Pix[o] = c.R
					out.Pix[o+1] = c.G
					out.Pix[o+2] = c.B
					out.Pix[o+3] = c.A
				}
			}
		}(y0, y1)
	}
	wg.Wait()
	return out
}

// bilinearSample interpolates the four neighboring pixels at a
// fractional source position. Samples outside the image are black.
func bilinearSample(src *image.NRGBA, x, y float64) color.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return color.NRGBA{0, 0, 0, 255}
	}
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := pixelAt(src, x0, y0)
	c10 := pixelAt(src, x1, y0)
	c01 := pixelAt(src, x0, y1)
	c11 := pixelAt(src, x1, y1)

	return color.NRGBA{
		R: uint8(lerp(lerp(c00[0], c10[0], fx), lerp(c01[0], c11[0], fx), fy) + 0.5),
		G: uint8(lerp(lerp(c00[1], c10[1], fx), lerp(c01[1], c11[1], fx), fy) + 0.5),
		B: uint8(lerp(lerp(c00[2], c10[2], fx), lerp(c01[2], c11[2], fx), fy) + 0.5),
		A: uint8(lerp(lerp(c00[3], c10[3], fx), lerp(c01[3], c11[3], fx), fy) + 0.5),
	}
}

func pixelAt(img *image.NRGBA, x, y int) [4]float64 {
	o := y*img.Stride + x*4
	return [4]float64{
		float64(img.Pix[o]),
		float64(img.Pix[o+1]),
		float64(img.Pix[o+2]),
		float64(img.Pix[o+3]),
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
