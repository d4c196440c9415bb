package detector

import (
	"image"

	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// confidence estimates how trustworthy a detected quad is, in [0,1].
// It combines three signals: how well the component fills its quad
// (mask pixel count vs. quad area, which punishes hollow or ragged
// shapes), how much of the frame the quad covers, and how uniform the
// image border is. Over-reporting here would suppress the manual-crop
// flow downstream, so each factor saturates at 1 and only discounts.
func confidence(working image.Image, quad geometry.Quad, fillArea float64, w, h int) float64 {
	rectangularity := 1.0
	if quadArea := quad.Area(); quadArea > 0 {
		rectangularity = fillArea / quadArea
		if rectangularity > 1 {
			rectangularity = 1
		}
	}

	areaFrac := quad.Area() / float64(w*h)
	if areaFrac > 1 {
		areaFrac = 1
	}
	areaScore := 0.5 + 0.5*areaFrac

	uniformity := borderUniformity(working)

	score := rectangularity * areaScore * (0.6 + 0.4*uniformity)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// borderUniformity measures how plain the image border region is, as a
// proxy for "document on a clean background". Returns 1 for a perfectly
// uniform border, falling toward 0 as the border gets busy. Distances
// are perceptual (CIE Lab).
func borderUniformity(img image.Image) float64 {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 4 || h < 4 {
		return 1
	}

	step := maxInt(w, h) / 64
	if step < 1 {
		step = 1
	}

	var samples []colorful.Color
	sampleAt := func(x, y int) {
		o := y*nrgba.Stride + x*4
		samples = append(samples, colorful.Color{
			R: float64(nrgba.Pix[o]) / 255.0,
			G: float64(nrgba.Pix[o+1]) / 255.0,
			B: float64(nrgba.Pix[o+2]) / 255.0,
		})
	}
	for x := 0; x < w; x += step {
		sampleAt(x, 0)
		sampleAt(x, h-1)
	}
	for y := 0; y < h; y += step {
		sampleAt(0, y)
		sampleAt(w-1, y)
	}
	if len(samples) == 0 {
		return 1
	}

	var mr, mg, mb float64
	for _, c := range samples {
		mr += c.R
		mg += c.G
		mb += c.B
	}
	n := float64(len(samples))
	mean := colorful.Color{R: mr / n, G: mg / n, B: mb / n}

	var avgDist float64
	for _, c := range samples {
		avgDist += c.DistanceLab(mean)
	}
	avgDist /= n

	u := 1.0 - 2.0*avgDist
	if u < 0 {
		return 0
	}
	return u
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
