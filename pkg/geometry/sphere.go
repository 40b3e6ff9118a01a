package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Sphere is the unit sphere at the origin of its local space, placed in the
// world by its transform
type Sphere struct {
	Transform core.Transform
	Material  material.Material
}

// NewSphere creates a new sphere
func NewSphere(transform core.Transform, mat material.Material) *Sphere {
	return &Sphere{
		Transform: transform,
		Material:  mat,
	}
}

// Intersect tests the ray against the sphere in its local space
func (s *Sphere) Intersect(ray core.Ray) (HitInfo, bool) {
	local := s.Transform.RayToLocal(ray)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := local.Direction.Dot(local.Direction)
	halfB := local.Origin.Dot(local.Direction)
	c := local.Origin.Dot(local.Origin) - 1.0

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return NoHit(), false
	}

	// Smallest root past the epsilon
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if root <= HitEpsilon {
		root = (-halfB + sqrtD) / a
		if root <= HitEpsilon {
			return NoHit(), false
		}
	}

	localPos := local.Origin.Add(local.Direction.Multiply(root))
	isEntry := local.Origin.LengthSquared() > 1.0

	// On the unit sphere the position is the outward normal
	return worldHit(s.Transform, ray, localPos, localPos, s.Material, isEntry)
}
