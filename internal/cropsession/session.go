// Package cropsession models the interactive manual-crop flow: a user
// drags the four corner handles of a proposed crop before committing.
// Corner positions are kept in normalized coordinates so a session is
// independent of the preview resolution it is rendered at.
package cropsession

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/descan/internal/geometry"
)

// State is the lifecycle phase of a crop session.
type State string

const (
	// StateIdle means no drag is in progress.
	StateIdle State = "idle"
	// StateDragging means one corner handle is being moved.
	StateDragging State = "dragging"
	// StateCommitted means the crop was accepted; the session is
	// terminal and read-only.
	StateCommitted State = "committed"
	// StateCancelled means the session was abandoned without emitting
	// a crop; it is terminal and read-only.
	StateCancelled State = "cancelled"
)

// Corner identifies one of the four drag handles.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// Drag handles clamp away from the exact image edge so a handle never
// becomes unreachable under a finger or pointer.
const (
	handleMin = 0.05
	handleMax = 0.95
)

var (
	// ErrSessionCommitted reports mutation of a committed session.
	ErrSessionCommitted = errors.New("crop session already committed")
	// ErrSessionCancelled reports mutation of a cancelled session.
	ErrSessionCancelled = errors.New("crop session cancelled")
	// ErrNoDragInProgress reports a drag update or end without a
	// preceding BeginDrag.
	ErrNoDragInProgress = errors.New("no drag in progress")
	// ErrDragInProgress reports an operation that requires an idle
	// session while a corner is held.
	ErrDragInProgress = errors.New("drag in progress")
)

// Session tracks an in-progress manual crop over one image. It is not
// safe for concurrent use; callers serialize access per session.
type Session struct {
	imageW  int
	imageH  int
	state   State
	quad    geometry.NormalizedQuad
	initial geometry.NormalizedQuad
	corner  Corner
}

// New starts a session over an image of the given size, seeded with a
// proposed crop (typically the detector's quad). The proposal is
// normalized and clamped into the draggable range.
func New(imageW, imageH int, proposal geometry.Quad) (*Session, error) {
	if imageW < 2 || imageH < 2 {
		return nil, fmt.Errorf("image size %dx%d too small for cropping", imageW, imageH)
	}
	quad := proposal.Normalize(imageW, imageH).Clamp(handleMin, handleMax)
	return &Session{
		imageW:  imageW,
		imageH:  imageH,
		state:   StateIdle,
		quad:    quad,
		initial: quad,
	}, nil
}

// NewWithDefaultCrop starts a session with a centered crop inset 10%
// from each edge, for when no detection result is available.
func NewWithDefaultCrop(imageW, imageH int) (*Session, error) {
	if imageW < 2 || imageH < 2 {
		return nil, fmt.Errorf("image size %dx%d too small for cropping", imageW, imageH)
	}
	quad := geometry.InsetQuad(0.1)
	return &Session{
		imageW:  imageW,
		imageH:  imageH,
		state:   StateIdle,
		quad:    quad,
		initial: quad,
	}, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// Bounds returns the current crop corners in normalized coordinates.
func (s *Session) Bounds() geometry.NormalizedQuad { return s.quad }

// terminalErr reports why a finished session refuses mutation, nil
// while the session is live.
func (s *Session) terminalErr() error {
	switch s.state {
	case StateCommitted:
		return ErrSessionCommitted
	case StateCancelled:
		return ErrSessionCancelled
	case StateIdle, StateDragging:
	}
	return nil
}

// BeginDrag picks up a corner handle.
func (s *Session) BeginDrag(c Corner) error {
	if err := s.terminalErr(); err != nil {
		return err
	}
	if s.state == StateDragging {
		return ErrDragInProgress
	}
	if c < CornerTopLeft || c > CornerBottomLeft {
		return fmt.Errorf("invalid corner %d", c)
	}
	s.state = StateDragging
	s.corner = c
	return nil
}

// UpdateDrag moves the held corner to the given normalized position,
// clamped into the draggable range. Out-of-range input is not an
// error; pointers routinely leave the preview area mid-drag.
func (s *Session) UpdateDrag(p geometry.NormalizedPoint) error {
	if s.state != StateDragging {
		return ErrNoDragInProgress
	}
	p = p.Clamp(handleMin, handleMax)
	switch s.corner {
	case CornerTopLeft:
		s.quad.TopLeft = p
	case CornerTopRight:
		s.quad.TopRight = p
	case CornerBottomRight:
		s.quad.BottomRight = p
	case CornerBottomLeft:
		s.quad.BottomLeft = p
	}
	return nil
}

// EndDrag releases the held corner, keeping its last position.
func (s *Session) EndDrag() error {
	if s.state != StateDragging {
		return ErrNoDragInProgress
	}
	s.state = StateIdle
	return nil
}

// Reset restores the proposal the session started with. Any drag in
// progress is abandoned.
func (s *Session) Reset() error {
	if err := s.terminalErr(); err != nil {
		return err
	}
	s.quad = s.initial
	s.state = StateIdle
	return nil
}

// Commit finalizes the crop and returns it in the image's pixel space.
// The session becomes terminal; further mutation fails.
func (s *Session) Commit() (geometry.Quad, error) {
	if err := s.terminalErr(); err != nil {
		return geometry.Quad{}, err
	}
	if s.state == StateDragging {
		return geometry.Quad{}, ErrDragInProgress
	}
	s.state = StateCommitted
	return s.quad.ToPixel(s.imageW, s.imageH), nil
}

// Cancel abandons the session without emitting a crop; the caller
// keeps whatever crop preceded the session. A drag in progress is
// simply discarded. The session becomes terminal.
func (s *Session) Cancel() error {
	if err := s.terminalErr(); err != nil {
		return err
	}
	s.state = StateCancelled
	return nil
}
