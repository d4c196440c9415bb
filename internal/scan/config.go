package scan

import (
	"fmt"

	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/geometry"
)

// Config describes one scan request: which enhancements to run, how to
// crop, and output size limits.
type Config struct {
	// Filter selects the output color treatment.
	Filter enhance.FilterMode

	// Enhancement stage toggles.
	RemoveShadows   bool
	EnhanceContrast bool
	Sharpen         bool

	// AutoCrop enables document detection and perspective correction.
	AutoCrop bool

	// CropBounds, when set, overrides detection with user-chosen
	// corners. The quad is rectified exactly as given.
	CropBounds *geometry.Quad

	// MaxWidth caps the output width in pixels. Zero means no cap.
	MaxWidth int
}

// DefaultConfig returns the standard scan settings: auto crop with all
// enhancement stages enabled and full-color output.
func DefaultConfig() Config {
	return Config{
		Filter:          enhance.FilterColor,
		RemoveShadows:   true,
		EnhanceContrast: true,
		Sharpen:         true,
		AutoCrop:        true,
	}
}

// Validate checks the request for inconsistent settings.
func (c Config) Validate() error {
	if c.Filter != "" {
		if _, err := enhance.ParseFilterMode(string(c.Filter)); err != nil {
			return err
		}
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("max width must be non-negative, got %d", c.MaxWidth)
	}
	return nil
}

// enhanceOptions translates the request toggles for the enhancement
// pipeline.
func (c Config) enhanceOptions() enhance.Options {
	filter := c.Filter
	if filter == "" {
		filter = enhance.FilterColor
	}
	return enhance.Options{
		RemoveShadows:   c.RemoveShadows,
		EnhanceContrast: c.EnhanceContrast,
		Sharpen:         c.Sharpen,
		Filter:          filter,
	}
}
