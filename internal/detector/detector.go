// Package detector locates the four corners of a photographed document
// against its background using classical image analysis: Otsu
// thresholding of a downscaled luminance map, morphological closing,
// connected-component extraction and contour corner reduction.
package detector

import (
	"image"
	"log/slog"

	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/mempool"
)

// Detector finds document quadrilaterals in raster images.
type Detector struct {
	cfg Config
}

// New creates a detector with the given configuration.
func New(cfg Config) *Detector {
	if cfg.WorkingSize <= 0 {
		cfg.WorkingSize = DefaultConfig().WorkingSize
	}
	return &Detector{cfg: cfg}
}

// Detect analyzes the image and returns the best-guess document
// quadrilateral in the image's own pixel space plus a confidence score
// in [0,1]. Detection never fails for a decodable image: when no
// plausible document region is found it degrades to the full-frame
// rectangle with a low confidence so the caller always has something
// to show.
func (d *Detector) Detect(img image.Image) (geometry.Quad, float64) {
	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()
	if origW < 2 || origH < 2 {
		return geometry.FullFrame(origW, origH), 0
	}

	working := downscaleForAnalysis(img, d.cfg.WorkingSize)
	wb := working.Bounds()
	w, h := wb.Dx(), wb.Dy()

	lum, _, _ := luminanceMap(working)
	defer mempool.PutFloat32(lum)
	smooth := smoothLuminance(lum, w, h)
	defer mempool.PutFloat32(smooth)

	thr := otsuThreshold(smooth)

	// The document may be lighter or darker than its background; try
	// both polarities and keep the more plausible candidate.
	quad, conf, ok := d.bestCandidate(working, smooth, w, h, thr)
	if !ok {
		slog.Debug("No document region found, falling back to full frame",
			"threshold", thr, "working_size", d.cfg.WorkingSize)
		return geometry.FullFrame(origW, origH), d.cfg.FallbackConfidence
	}

	if d.cfg.DebugDir != "" {
		_ = dumpQuadOverlay(d.cfg.DebugDir, working, quad)
	}

	// Scale back to the original image's coordinate space.
	sx := float64(origW) / float64(w)
	sy := float64(origH) / float64(h)
	scaled := quad.Scale(sx, sy)

	slog.Debug("Document detected",
		"confidence", conf,
		"area_fraction", quad.Area()/float64(w*h))
	return scaled, conf
}

// bestCandidate extracts the largest plausible component for each
// threshold polarity, scores both, and keeps the one with the higher
// confidence. Scoring by confidence rather than raw area matters when
// the background forms the bigger component: its quad covers the whole
// frame but its fill ratio is poor, so the actual document wins.
func (d *Detector) bestCandidate(working image.Image, lum []float32, w, h int, thr float32) (geometry.Quad, float64, bool) {
	var bestQuad geometry.Quad
	var bestConf float64
	found := false

	for _, above := range []bool{true, false} {
		mask := binarize(lum, above, thr)
		mask = closeMask(mask, w, h, d.cfg.MorphKernelSize)

		comps, labels := connectedComponents(mask, w, h)
		mempool.PutBool(mask)
		comp := largestComponent(comps)
		if comp.count == 0 {
			continue
		}

		frac := float64(comp.count) / float64(w*h)
		if frac < d.cfg.MinAreaRatio || frac > d.cfg.MaxAreaRatio {
			continue
		}

		quad, ok := d.quadFromComponent(labels, w, h, comp)
		if !ok {
			continue
		}
		conf := confidence(working, quad, float64(comp.count), w, h)
		if !found || conf > bestConf {
			bestQuad = quad
			bestConf = conf
			found = true
		}
	}
	return bestQuad, bestConf, found
}

// quadFromComponent reduces a component's boundary to four corner
// points: contour trace, simplification, convex hull, then either the
// simplified polygon itself (when it already has four stable corners)
// or its minimum-area enclosing rectangle.
func (d *Detector) quadFromComponent(labels []int, w, h int, comp compStats) (geometry.Quad, bool) {
	contour := traceContour(labels, w, h, comp)
	if len(contour) < 3 {
		return geometry.Quad{}, false
	}

	compW := float64(comp.maxX - comp.minX + 1)
	compH := float64(comp.maxY - comp.minY + 1)
	maxDim := compW
	if compH > maxDim {
		maxDim = compH
	}
	eps := d.cfg.SimplifyEpsRatio * maxDim
	if eps < 0.5 {
		eps = 0.5
	}
	simplified := geometry.SimplifyPolygon(contour, eps)
	hull := geometry.ConvexHull(simplified)
	if len(hull) < 3 {
		return geometry.Quad{}, false
	}

	var corners [4]geometry.PixelPoint
	if len(hull) == 4 {
		copy(corners[:], hull)
	} else {
		mar := geometry.MinimumAreaRectangle(hull)
		if len(mar) != 4 {
			return geometry.Quad{}, false
		}
		copy(corners[:], mar)
	}

	expanded := geometry.ExpandPolygon(corners[:], d.cfg.ExpandScale)
	for i, p := range expanded {
		expanded[i] = geometry.PixelPoint{
			X: clampF(p.X, 0, float64(w)),
			Y: clampF(p.Y, 0, float64(h)),
		}
	}
	copy(corners[:], expanded)

	quad := geometry.QuadFromCorners(corners)
	if quad.IsDegenerate(float64(w*h) * 0.001) {
		return geometry.Quad{}, false
	}
	return quad, true
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
