package core

import (
	"math"
)

// RNG is a 32-bit splitmix-style generator. It owns its state and is not safe
// for concurrent use; every pixel task holds its own instance.
type RNG struct {
	state uint32
}

const (
	rngIncrement = 0x9e3779b9
	rngMulA      = 0x85ebca6b
	rngMulB      = 0xc2b2ae35
)

// NewRNG creates a generator from a raw seed
func NewRNG(seed uint32) *RNG {
	return &RNG{state: seed}
}

// PixelSeed derives the per-pixel seed frameCounter * (1 + x + y*width).
// Arithmetic wraps at 32 bits.
func PixelSeed(frameCounter uint32, x, y, width int) uint32 {
	return frameCounter * (1 + uint32(x) + uint32(y)*uint32(width))
}

// NewPixelRNG seeds a generator for one pixel of one frame and advances it
// through two warm-up steps so neighbouring pixels and frames decorrelate.
func NewPixelRNG(frameCounter uint32, x, y, width int) *RNG {
	r := NewRNG(PixelSeed(frameCounter, x, y, width))
	r.NextU32()
	r.NextU32()
	return r
}

// State returns the current internal state
func (r *RNG) State() uint32 {
	return r.state
}

// NextU32 advances the state and returns the next mixed 32-bit value
func (r *RNG) NextU32() uint32 {
	r.state += rngIncrement
	z := r.state
	z = (z ^ (z >> 16)) * rngMulA
	z = (z ^ (z >> 13)) * rngMulB
	return z ^ (z >> 16)
}

// NextFloat returns the next value divided by the largest uint32, in [0, 1]
func (r *RNG) NextFloat() float64 {
	return float64(r.NextU32()) / float64(math.MaxUint32)
}

// NextNormal returns a standard normal variate using the Box-Muller transform
func (r *RNG) NextNormal() float64 {
	u1 := max(r.NextFloat(), math.SmallestNonzeroFloat64)
	u2 := r.NextFloat()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// NextUnitVector returns a direction uniformly distributed on the unit sphere
// built from three normal draws. A near-zero draw is not special-cased.
func (r *RNG) NextUnitVector() Vec3 {
	return NewVec3(r.NextNormal(), r.NextNormal(), r.NextNormal()).Normalize()
}
