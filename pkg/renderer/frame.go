package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
)

// ErrInvalidFrame is returned when frame parameters cannot be rendered
var ErrInvalidFrame = errors.New("invalid frame parameters")

// FrameParams is the immutable per-frame configuration handed to every pixel
// task. A FrameCounter of 0 or 1 starts a new accumulation sequence.
type FrameParams struct {
	FrameCounter uint32
	Width        int
	Height       int
	Camera       core.Transform // Camera-to-world; the camera looks down local +Z
	VFov         float64        // Vertical field of view in radians
	Budget       integrator.Budget
}

// Validate checks the parameters. Errors wrap ErrInvalidFrame.
func (p FrameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidFrame, p.Width, p.Height)
	}
	if !(p.VFov > 0 && p.VFov < math.Pi) {
		return fmt.Errorf("%w: vertical field of view %v radians", ErrInvalidFrame, p.VFov)
	}
	if !p.Camera.IsInvertible() {
		return fmt.Errorf("%w: camera transform is singular", ErrInvalidFrame)
	}
	if err := p.Budget.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	return nil
}

// IsReset reports whether this frame overwrites rather than adds to the
// accumulator
func (p FrameParams) IsReset() bool {
	return p.FrameCounter <= 1
}

// FrameCount is the number of samples each accumulator holds after this frame
func (p FrameParams) FrameCount() int {
	if p.FrameCounter == 0 {
		return 1
	}
	return int(p.FrameCounter)
}
