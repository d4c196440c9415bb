// Package scan orchestrates the document pipeline: detection,
// perspective rectification, enhancement and output sizing.
package scan

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/descan/internal/common"
	"github.com/MeKo-Tech/descan/internal/detector"
	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/imgio"
	"github.com/MeKo-Tech/descan/internal/rectify"
)

// DefaultMinAcceptConfidence is the detector score below which an
// automatic crop is rejected in favor of the full frame.
const DefaultMinAcceptConfidence = 0.35

// ScannerConfig tunes the shared pipeline components.
type ScannerConfig struct {
	Detector  detector.Config
	Rectifier rectify.Config
	// MinAcceptConfidence gates automatic cropping. Zero means the
	// default.
	MinAcceptConfidence float64
}

// DefaultScannerConfig returns production pipeline settings.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		Detector:            detector.DefaultConfig(),
		Rectifier:           rectify.DefaultConfig(),
		MinAcceptConfidence: DefaultMinAcceptConfidence,
	}
}

// Scanner runs document captures through the processing pipeline. It
// is safe for concurrent use.
type Scanner struct {
	det       *detector.Detector
	rect      *rectify.Rectifier
	minAccept float64
}

// NewScanner creates a Scanner with the given pipeline configuration.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.MinAcceptConfidence <= 0 {
		cfg.MinAcceptConfidence = DefaultMinAcceptConfidence
	}
	return &Scanner{
		det:       detector.New(cfg.Detector),
		rect:      rectify.New(cfg.Rectifier),
		minAccept: cfg.MinAcceptConfidence,
	}
}

// ScanBytes decodes an encoded image and processes it. Decoding
// failures wrap ErrInvalidImage.
func (s *Scanner) ScanBytes(ctx context.Context, data []byte, cfg Config) (*Result, error) {
	img, format, err := imgio.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	slog.Debug("Decoded scan input", "format", format, "bytes", len(data))
	return s.ScanDocument(ctx, img, cfg)
}

// ScanDocument processes a decoded capture: it chooses crop bounds
// (explicit, detected, or full frame), rectifies the region, runs the
// enhancement stages and applies the output width cap.
func (s *Scanner) ScanDocument(ctx context.Context, img image.Image, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrInvalidImage, w, h)
	}

	result := &Result{Original: img}
	timer := common.NewStageTimer()

	switch {
	case cfg.CropBounds != nil:
		// Explicit bounds are authoritative: no detection runs and the
		// caller's corners are trusted fully. AutoCropApplied still
		// mirrors the request flag so callers can tell an override of
		// an automatic crop from a manual-only crop.
		result.CropBounds = *cfg.CropBounds
		result.Confidence = 1
		result.AutoCropApplied = cfg.AutoCrop
	case cfg.AutoCrop:
		quad, conf := s.det.Detect(img)
		result.Confidence = conf
		if conf >= s.minAccept {
			result.CropBounds = quad
			result.AutoCropApplied = true
		} else {
			// Not sure enough to cut anything away. Keep the full
			// frame but surface the guess so a UI can offer it as a
			// starting point for manual cropping.
			result.CropBounds = geometry.FullFrame(w, h)
			slog.Debug("Auto crop rejected",
				"confidence", conf, "min_accept", s.minAccept)
		}
	default:
		result.CropBounds = geometry.FullFrame(w, h)
		result.Confidence = 1
	}

	timer.Mark("detect")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processed, err := s.cropAndRectify(img, result)
	if err != nil {
		return nil, err
	}
	timer.Mark("rectify")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Enhancement runs at the rectified resolution; the width cap
	// shrinks the finished output afterwards.
	processed, err = enhance.Apply(processed, cfg.enhanceOptions())
	if err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}
	timer.Mark("enhance")

	if cfg.MaxWidth > 0 && processed.Bounds().Dx() > cfg.MaxWidth {
		processed = imaging.Resize(processed, cfg.MaxWidth, 0, imaging.Box)
	}

	result.Processed = processed
	attrs := append([]any{
		"auto_crop", result.AutoCropApplied,
		"confidence", result.Confidence,
		"output_width", processed.Bounds().Dx(),
		"output_height", processed.Bounds().Dy(),
	}, timer.Attrs()...)
	slog.Debug("Scan complete", attrs...)
	return result, nil
}

// DetectCropBounds runs detection only, for previews and manual crop
// seeding.
func (s *Scanner) DetectCropBounds(img image.Image) (geometry.Quad, float64, error) {
	b := img.Bounds()
	if b.Dx() < 2 || b.Dy() < 2 {
		return geometry.Quad{}, 0, fmt.Errorf("%w: %dx%d pixels", ErrInvalidImage, b.Dx(), b.Dy())
	}
	quad, conf := s.det.Detect(img)
	return quad, conf, nil
}

// cropAndRectify warps the chosen region upright. A full-frame
// axis-aligned quad skips the warp entirely to keep pixels exact.
func (s *Scanner) cropAndRectify(img image.Image, result *Result) (image.Image, error) {
	b := img.Bounds()
	if result.CropBounds == geometry.FullFrame(b.Dx(), b.Dy()) {
		return img, nil
	}
	out, err := s.rect.Rectify(img, result.CropBounds)
	if err != nil {
		return nil, fmt.Errorf("rectify: %w", err)
	}
	return out, nil
}
