package imgio

import (
	"image"
	"image/color"
	"math"

	"github.com/MeKo-Tech/descan/internal/geometry"
)

// DrawQuad draws the quadrilateral outline into dst, closing the loop.
func DrawQuad(dst *image.RGBA, quad geometry.Quad, col color.Color, thickness int) {
	c := quad.Corners()
	for i := range c {
		a := image.Pt(int(math.Round(c[i].X)), int(math.Round(c[i].Y)))
		b := image.Pt(int(math.Round(c[(i+1)%4].X)), int(math.Round(c[(i+1)%4].Y)))
		drawLine(dst, a, b, col, thickness)
	}
}

// drawLine draws a line between two points using a Bresenham variant.
func drawLine(dst *image.RGBA, a, b image.Point, col color.Color, thickness int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		drawThickPoint(dst, x0, y0, col, thickness)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawThickPoint(dst *image.RGBA, x, y int, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	r := (thickness - 1) / 2
	for yy := y - r; yy <= y+r; yy++ {
		for xx := x - r; xx <= x+r; xx++ {
			if image.Pt(xx, yy).In(dst.Bounds()) {
				dst.Set(xx, yy, col)
			}
		}
	}
}
