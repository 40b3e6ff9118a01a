package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// IntersectTriangle runs the Möller-Trumbore test against one triangle.
// The direction need not be unit length; the returned distance is the ray
// parameter. The TriangleID of the result is left at zero.
func IntersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3) (TriHit, bool) {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -ParallelEpsilon && a < ParallelEpsilon {
		return TriHit{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return TriHit{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return TriHit{}, false
	}

	t := f * edge2.Dot(q)
	if t <= HitEpsilon {
		return TriHit{}, false
	}

	return TriHit{U: u, V: v, Distance: t}, true
}

// Barycentric interpolates three per-vertex values with weights (1-u-v, u, v)
func Barycentric(a, b, c core.Vec3, u, v float64) core.Vec3 {
	return a.Multiply(1 - u - v).Add(b.Multiply(u)).Add(c.Multiply(v))
}
