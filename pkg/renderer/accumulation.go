package renderer

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Accum is one pixel's running sum. A holds auxiliary data (the bounce count
// of the latest path) and is never summed across frames.
type Accum struct {
	R, G, B float64
	A       float64
}

// Color returns the accumulated radiance
func (a Accum) Color() core.Vec3 {
	return core.NewVec3(a.R, a.G, a.B)
}

// AccumBuffer is the per-pixel floating point RGBA accumulation surface.
// Each pixel is written by exactly one task per frame.
type AccumBuffer struct {
	Width  int
	Height int
	Pix    []Accum // Row-major, Width*Height entries
}

// NewAccumBuffer allocates a zeroed buffer
func NewAccumBuffer(width, height int) *AccumBuffer {
	return &AccumBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]Accum, width*height),
	}
}

// InBounds reports whether (x, y) addresses a pixel of the buffer
func (b *AccumBuffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// At returns the accumulator at (x, y)
func (b *AccumBuffer) At(x, y int) Accum {
	return b.Pix[y*b.Width+x]
}

// Accumulate stores one frame's sample: a reset frame overwrites the pixel,
// any later frame adds to it. The auxiliary channel is replaced every frame.
func (b *AccumBuffer) Accumulate(x, y int, reset bool, radiance core.Vec3, aux float64) {
	p := &b.Pix[y*b.Width+x]
	if reset {
		*p = Accum{}
	}
	p.R += radiance.X
	p.G += radiance.Y
	p.B += radiance.Z
	p.A = aux
}

// Average returns the displayed estimate: the running sum divided by the
// number of accumulated frames
func (b *AccumBuffer) Average(x, y, frames int) core.Vec3 {
	if frames < 1 {
		frames = 1
	}
	return b.At(x, y).Color().Multiply(1.0 / float64(frames))
}

// Clear zeroes every accumulator
func (b *AccumBuffer) Clear() {
	for i := range b.Pix {
		b.Pix[i] = Accum{}
	}
}
