// Package testutil generates synthetic document photographs with known
// geometry for detector, rectifier and pipeline tests.
package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/MeKo-Tech/descan/internal/geometry"
)

// DocumentImageConfig describes a synthetic "photograph": a rotated
// rectangular document of DocColor on a uniform Background.
type DocumentImageConfig struct {
	Width      int
	Height     int
	DocWidth   int
	DocHeight  int
	AngleDeg   float64 // counter-clockwise rotation of the document
	Background color.Color
	DocColor   color.Color
}

// DefaultDocumentImageConfig returns the standard fixture: an 800x1100
// white document rotated 8 degrees on a gray 1200x1600 background.
func DefaultDocumentImageConfig() DocumentImageConfig {
	return DocumentImageConfig{
		Width:      1200,
		Height:     1600,
		DocWidth:   800,
		DocHeight:  1100,
		AngleDeg:   8,
		Background: color.RGBA{128, 128, 128, 255},
		DocColor:   color.White,
	}
}

// GenerateDocumentImage renders the synthetic photograph and returns it
// together with the exact pixel-space corner quad of the document.
func GenerateDocumentImage(cfg DocumentImageConfig) (*image.RGBA, geometry.Quad) {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)

	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height) / 2
	hw := float64(cfg.DocWidth) / 2
	hh := float64(cfg.DocHeight) / 2
	rad := cfg.AngleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	rotate := func(x, y float64) geometry.PixelPoint {
		return geometry.PixelPoint{
			X: cx + x*cos - y*sin,
			Y: cy + x*sin + y*cos,
		}
	}
	quad := geometry.Quad{
		TopLeft:     rotate(-hw, -hh),
		TopRight:    rotate(hw, -hh),
		BottomRight: rotate(hw, hh),
		BottomLeft:  rotate(-hw, hh),
	}

	// Fill by inverse-rotating each pixel into the document's frame.
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			ux := dx*cos + dy*sin
			uy := -dx*sin + dy*cos
			if ux >= -hw && ux <= hw && uy >= -hh && uy <= hh {
				img.Set(x, y, cfg.DocColor)
			}
		}
	}
	return img, quad
}

// UniformImage creates a single-color image, e.g. for no-document
// fallback tests.
func UniformImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// GradientImage creates a horizontal dark-to-light gradient, useful for
// contrast and shadow-removal tests.
func GradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		v := uint8(40 + 160*x/width)
		for y := 0; y < height; y++ {
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}
