package scan

import (
	"image"

	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/imgio"
)

// Result holds the outcome of processing one document capture.
type Result struct {
	// Original is the decoded input image, untouched.
	Original image.Image
	// Processed is the cropped, rectified and enhanced output.
	Processed image.Image
	// CropBounds are the corners that were cut from the original, in
	// the original's pixel space.
	CropBounds geometry.Quad
	// Confidence reports how certain the crop is: the detector score
	// for automatic crops, 1 for explicit bounds.
	Confidence float64
	// AutoCropApplied tells whether automatic cropping took effect:
	// true when detection chose the crop, and for explicit bounds it
	// mirrors the request's AutoCrop flag. False for low-confidence
	// full-frame fallbacks.
	AutoCropApplied bool
}

// EncodePNG returns the processed image as PNG bytes.
func (r *Result) EncodePNG() ([]byte, error) {
	return imgio.EncodePNG(r.Processed)
}

// EncodeJPEG returns the processed image as JPEG bytes.
func (r *Result) EncodeJPEG(quality int) ([]byte, error) {
	return imgio.EncodeJPEG(r.Processed, quality)
}
