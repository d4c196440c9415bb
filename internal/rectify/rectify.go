// Package rectify performs perspective correction: it maps an arbitrary
// document quadrilateral onto an upright rectangle via a homography
// estimated from the four corner correspondences.
package rectify

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/MeKo-Tech/descan/internal/geometry"
)

// ErrDegenerateGeometry reports a quad that cannot define a
// perspective transform (near-zero area or coincident corners).
var ErrDegenerateGeometry = errors.New("degenerate quadrilateral geometry")

// Config controls rectification output sizing.
type Config struct {
	// MaxOutputDim caps the longer output side. Zero means the default.
	MaxOutputDim int
	// MinQuadArea is the smallest acceptable quad area in square pixels.
	// Zero means the default.
	MinQuadArea float64
}

// DefaultConfig returns production rectification settings.
func DefaultConfig() Config {
	return Config{
		MaxOutputDim: 4096,
		MinQuadArea:  16,
	}
}

// Rectifier warps document quads into upright rectangles.
type Rectifier struct {
	cfg Config
}

// New creates a Rectifier with the given configuration.
func New(cfg Config) *Rectifier {
	if cfg.MaxOutputDim <= 0 {
		cfg.MaxOutputDim = DefaultConfig().MaxOutputDim
	}
	if cfg.MinQuadArea <= 0 {
		cfg.MinQuadArea = DefaultConfig().MinQuadArea
	}
	return &Rectifier{cfg: cfg}
}

// Rectify extracts the quad region from img and returns it as an
// upright image. The output dimensions follow the quad's average edge
// lengths so the document keeps its physical aspect ratio and roughly
// its native resolution. Returns ErrDegenerateGeometry when the quad
// cannot support a perspective transform.
func (r *Rectifier) Rectify(img image.Image, quad geometry.Quad) (image.Image, error) {
	if quad.IsDegenerate(r.cfg.MinQuadArea) {
		return nil, fmt.Errorf("rectify quad area %.1f: %w", quad.Area(), ErrDegenerateGeometry)
	}

	avgW := quad.AvgWidth()
	avgH := quad.AvgHeight()
	if avgW < 1 || avgH < 1 {
		return nil, fmt.Errorf("rectify output %fx%f: %w", avgW, avgH, ErrDegenerateGeometry)
	}

	dstW, dstH := outputSize(avgW, avgH, r.cfg.MaxOutputDim)

	out := warpPerspective(img, quad.Corners(), dstW, dstH)
	if out == nil {
		return nil, fmt.Errorf("homography for quad %+v: %w", quad, ErrDegenerateGeometry)
	}

	slog.Debug("Rectified document region",
		"output_width", dstW,
		"output_height", dstH,
		"aspect", avgW/avgH)
	return out, nil
}

// outputSize rounds the averaged edge lengths to pixel dimensions and
// scales down proportionally when the longer side exceeds maxDim.
func outputSize(avgW, avgH float64, maxDim int) (int, int) {
	longer := math.Max(avgW, avgH)
	if longer > float64(maxDim) {
		scale := float64(maxDim) / longer
		avgW *= scale
		avgH *= scale
	}
	w := int(math.Round(avgW))
	h := int(math.Round(avgH))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
