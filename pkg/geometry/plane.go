package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Plane is the square [-1,1]x[-1,1] on the z=0 plane of its local space.
// It is infinitely thin and can be hit from either face.
type Plane struct {
	Transform core.Transform
	Material  material.Material
}

// NewPlane creates a new plane
func NewPlane(transform core.Transform, mat material.Material) *Plane {
	return &Plane{
		Transform: transform,
		Material:  mat,
	}
}

// Intersect tests the ray against the plane in its local space
func (p *Plane) Intersect(ray core.Ray) (HitInfo, bool) {
	local := p.Transform.RayToLocal(ray)

	// Grazing rays never reach z=0
	if math.Abs(local.Direction.Z) < ParallelEpsilon {
		return NoHit(), false
	}

	t := -local.Origin.Z / local.Direction.Z
	if t < HitEpsilon {
		return NoHit(), false
	}

	localPos := local.Origin.Add(local.Direction.Multiply(t))
	if math.Abs(localPos.X) > 1.0 || math.Abs(localPos.Y) > 1.0 {
		return NoHit(), false
	}

	// The normal faces the side the ray came from
	side := 1.0
	if local.Origin.Z < 0 {
		side = -1.0
	}

	return worldHit(p.Transform, ray, localPos, core.NewVec3(0, 0, side), p.Material, true)
}
