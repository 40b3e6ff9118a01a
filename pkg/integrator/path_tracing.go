package integrator

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// ThroughputThreshold ends a path once the sum of its throughput channels
// drops below it
const ThroughputThreshold = 1e-3

// State is a node of the bounce state machine
type State int

const (
	Tracing   State = iota // Path continues with the carried ray
	HitSky                 // Ray escaped; sky radiance was added
	Exhausted              // Bounce budget ran out
	Absorbed               // Throughput fell below the threshold
)

func (s State) String() string {
	switch s {
	case Tracing:
		return "tracing"
	case HitSky:
		return "sky"
	case Exhausted:
		return "exhausted"
	case Absorbed:
		return "absorbed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further step is possible
func (s State) Terminal() bool {
	return s != Tracing
}

// Carry is the state passed from one bounce to the next
type Carry struct {
	Ray        core.Ray
	Throughput core.Vec3
	Radiance   core.Vec3
	Remaining  int // Combined bounce budget left
	Reflects   int // Reflect budget left, used only when Split
	Refracts   int // Refract budget left, used only when Split
	Split      bool
	Bounces    int // Bounces taken so far
}

// NewCarry starts a path with unit throughput and no radiance
func NewCarry(ray core.Ray, budget Budget) Carry {
	return Carry{
		Ray:        ray,
		Throughput: core.NewVec3(1, 1, 1),
		Remaining:  budget.MaxBounce,
		Reflects:   budget.MaxReflect,
		Refracts:   budget.MaxRefract,
		Split:      budget.Split(),
	}
}

// Step advances the path by one intersection. It never mutates its inputs.
func Step(scene Scene, c Carry, sampler core.Sampler) (State, Carry) {
	if c.Remaining <= 0 {
		return Exhausted, c
	}
	if c.Throughput.Sum() < ThroughputThreshold {
		return Absorbed, c
	}

	hit := scene.Intersect(c.Ray)
	if !hit.IsHit() {
		c.Radiance = c.Radiance.Add(c.Throughput.MultiplyVec(scene.Sky(c.Ray.Direction)))
		return HitSky, c
	}

	mat := hit.Material
	c.Radiance = c.Radiance.Add(c.Throughput.MultiplyVec(mat.Emission))
	c.Throughput = c.Throughput.MultiplyVec(mat.Color)

	incoming := c.Ray.Direction
	normal := material.FaceForward(hit.Normal, incoming)

	var next core.Vec3
	refracted := false
	if sampler.NextFloat() >= mat.Opacity && (!c.Split || c.Refracts > 0) {
		next, refracted = material.Refract(incoming, normal, mat.IORRatio(hit.IsEntry))
	}

	if refracted {
		if c.Split {
			c.Refracts--
		}
	} else {
		if c.Split && c.Reflects <= 0 {
			return Exhausted, c
		}
		specular := material.Reflect(incoming, normal)
		diffuse := core.SampleHemisphere(normal, sampler)
		next = specular.Lerp(diffuse, mat.Roughness)
		if c.Split {
			c.Reflects--
		}
	}

	next = next.Normalize()
	if next.LengthSquared() == 0 {
		// Opposite specular and diffuse candidates cancelled out
		next = normal
	}

	c.Ray = core.Ray{Origin: hit.Position, Direction: next}
	c.Remaining--
	c.Bounces++
	return Tracing, c
}

// PathTracingIntegrator runs Step until the path terminates
type PathTracingIntegrator struct {
	budget Budget
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(budget Budget) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		budget: budget,
	}
}

// Budget returns the bounce limits the integrator was built with
func (pt *PathTracingIntegrator) Budget() Budget {
	return pt.budget
}

// Trace follows a camera ray through the scene. The result is a pure
// function of the ray and the sampler's state.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, scene Scene, sampler core.Sampler) PathResult {
	state, carry := Tracing, NewCarry(ray, pt.budget)
	for !state.Terminal() {
		state, carry = Step(scene, carry, sampler)
	}
	return PathResult{
		Radiance: carry.Radiance,
		State:    state,
		Bounces:  carry.Bounces,
	}
}
