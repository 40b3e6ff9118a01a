package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Reflect mirrors the direction v about the normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit direction uv through a boundary with unit normal n
// facing against uv, using the vector form of Snell's law with ratio eta.
// It returns false on total internal reflection.
func Refract(uv, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosI := -uv.Dot(n)
	k := 1.0 - eta*eta*(1.0-cosI*cosI)
	if k < 0 {
		return core.Vec3{}, false
	}
	return uv.Multiply(eta).Add(n.Multiply(eta*cosI - math.Sqrt(k))), true
}

// FaceForward returns n flipped, if needed, to oppose the direction v
func FaceForward(n, v core.Vec3) core.Vec3 {
	if v.Dot(n) > 0 {
		return n.Negate()
	}
	return n
}
