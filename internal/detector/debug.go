package detector

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/imgio"
)

// dumpQuadOverlay writes the working image with the detected quad drawn
// on top into dir, for inspecting detection behavior on real captures.
func dumpQuadOverlay(dir string, src image.Image, quad geometry.Quad) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	b := src.Bounds()
	canvas := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			canvas.Set(x, y, src.At(x, y))
		}
	}
	imgio.DrawQuad(canvas, quad, color.RGBA{255, 0, 0, 255}, 2)

	path := filepath.Join(dir, fmt.Sprintf("detect_overlay_%d.png", time.Now().UnixNano()))
	return imgio.SaveFile(canvas, path)
}
