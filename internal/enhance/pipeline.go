package enhance

import (
	"image"
	"log/slog"
)

const stageFilter = "filter"

// Apply runs the enabled enhancement stages in their fixed order:
// shadow removal, contrast stretch, sharpening, then the color filter.
// The order matters: shadow removal must see the raw illumination and
// sharpening must run before binarization so edges survive it.
func Apply(img image.Image, opts Options) (image.Image, error) {
	if opts.Filter == "" {
		opts.Filter = FilterColor
	}
	if _, err := ParseFilterMode(string(opts.Filter)); err != nil {
		return nil, &StageError{Stage: stageFilter, Err: err}
	}

	out := img
	if opts.RemoveShadows {
		flattened, err := removeShadows(out)
		if err != nil {
			slog.Debug("Skipping shadow removal", "reason", err)
		} else {
			out = flattened
		}
	}
	if opts.EnhanceContrast {
		out = stretchContrast(out)
	}
	if opts.Sharpen {
		out = sharpen(out)
	}
	out = applyFilter(out, opts.Filter)
	return out, nil
}
