package scan

import "errors"

// ErrInvalidImage reports input that could not be decoded or is too
// small to process.
var ErrInvalidImage = errors.New("invalid input image")
