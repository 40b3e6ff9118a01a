package integrator

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

// Scene is what the integrator needs from the world: a nearest-hit query and
// the environment seen by rays that escape
type Scene interface {
	Intersect(ray core.Ray) geometry.HitInfo
	Sky(direction core.Vec3) core.Vec3
}

// Integrator computes the radiance arriving along a camera ray
type Integrator interface {
	Trace(ray core.Ray, scene Scene, sampler core.Sampler) PathResult
}

// Budget limits the length of a path. MaxBounce always applies; MaxReflect
// and MaxRefract add separate limits per branch when non-zero.
type Budget struct {
	MaxBounce  int
	MaxReflect int
	MaxRefract int
}

// Validate checks that the budget allows at least one bounce
func (b Budget) Validate() error {
	if b.MaxBounce <= 0 {
		return fmt.Errorf("max bounce must be positive, got %d", b.MaxBounce)
	}
	if b.MaxReflect < 0 || b.MaxRefract < 0 {
		return fmt.Errorf("reflect and refract budgets must not be negative")
	}
	return nil
}

// Split reports whether separate reflect/refract budgets are in force
func (b Budget) Split() bool {
	return b.MaxReflect > 0 || b.MaxRefract > 0
}

// PathResult is the outcome of tracing one path to termination
type PathResult struct {
	Radiance core.Vec3
	State    State // Terminal state the path ended in
	Bounces  int   // Surfaces the path scattered from
}
