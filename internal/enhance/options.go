// Package enhance applies post-rectification image cleanup: shadow
// removal, contrast stretching, sharpening and output filter modes.
package enhance

import "fmt"

// FilterMode selects the final color treatment of a processed scan.
type FilterMode string

const (
	// FilterColor keeps the original colors.
	FilterColor FilterMode = "color"
	// FilterGrayscale converts to luminance only.
	FilterGrayscale FilterMode = "grayscale"
	// FilterBlackWhite binarizes with an adaptive threshold, suited
	// for text documents.
	FilterBlackWhite FilterMode = "blackwhite"
)

// ParseFilterMode validates a filter mode string.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterColor, FilterGrayscale, FilterBlackWhite:
		return FilterMode(s), nil
	}
	return "", fmt.Errorf("unknown filter mode %q", s)
}

// Options selects which enhancement stages run and in what output mode.
// The zero value leaves the image untouched apart from the color
// filter, which defaults to FilterColor.
type Options struct {
	RemoveShadows   bool
	EnhanceContrast bool
	Sharpen         bool
	Filter          FilterMode
}

// DefaultOptions returns the standard document cleanup settings.
func DefaultOptions() Options {
	return Options{
		RemoveShadows:   true,
		EnhanceContrast: true,
		Sharpen:         true,
		Filter:          FilterColor,
	}
}

// StageError reports which enhancement stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("enhance stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
