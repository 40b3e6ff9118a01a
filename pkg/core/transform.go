package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform places an object in the world. The inverse is kept in step with
// the forward matrix; rays are moved into local space with the inverse.
type Transform struct {
	matrix    mgl64.Mat4
	invMatrix mgl64.Mat4
}

// IdentityTransform returns the transform that leaves everything in place
func IdentityTransform() Transform {
	return Transform{matrix: mgl64.Ident4(), invMatrix: mgl64.Ident4()}
}

// NewTransform creates a transform from a forward (local-to-world) matrix
func NewTransform(m mgl64.Mat4) Transform {
	return Transform{matrix: m, invMatrix: m.Inv()}
}

// NewTRS builds a transform from a translation, XYZ euler rotation in radians
// and a per-axis scale, applied scale first.
func NewTRS(translation, rotation, scale Vec3) Transform {
	m := mgl64.Translate3D(translation.X, translation.Y, translation.Z).
		Mul4(mgl64.HomogRotate3DZ(rotation.Z)).
		Mul4(mgl64.HomogRotate3DY(rotation.Y)).
		Mul4(mgl64.HomogRotate3DX(rotation.X)).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
	return NewTransform(m)
}

// Matrix returns the forward matrix
func (t Transform) Matrix() mgl64.Mat4 {
	return t.matrix
}

// InverseMatrix returns the world-to-local matrix
func (t Transform) InverseMatrix() mgl64.Mat4 {
	return t.invMatrix
}

// SetMatrix replaces the forward matrix and recomputes the inverse
func (t *Transform) SetMatrix(m mgl64.Mat4) {
	t.matrix = m
	t.invMatrix = m.Inv()
}

// IsInvertible reports whether the forward matrix has a usable inverse
func (t Transform) IsInvertible() bool {
	det := t.matrix.Det()
	return det != 0 && !math.IsNaN(det) && !math.IsInf(det, 0)
}

// RayToLocal moves a world-space ray into local space. The direction is
// intentionally left unnormalized so the ray parameter is preserved.
func (t Transform) RayToLocal(ray Ray) Ray {
	return Ray{
		Origin:    t.PointToLocal(ray.Origin),
		Direction: t.VectorToLocal(ray.Direction),
	}
}

// PointToLocal transforms a world-space point into local space
func (t Transform) PointToLocal(p Vec3) Vec3 {
	return toVec3(mgl64.TransformCoordinate(fromVec3(p), t.invMatrix))
}

// PointToWorld transforms a local-space point into world space
func (t Transform) PointToWorld(p Vec3) Vec3 {
	return toVec3(mgl64.TransformCoordinate(fromVec3(p), t.matrix))
}

// VectorToLocal transforms a world-space direction into local space
func (t Transform) VectorToLocal(v Vec3) Vec3 {
	return toVec3(mgl64.TransformNormal(fromVec3(v), t.invMatrix))
}

// VectorToWorld transforms a local-space direction into world space
func (t Transform) VectorToWorld(v Vec3) Vec3 {
	return toVec3(mgl64.TransformNormal(fromVec3(v), t.matrix))
}

// NormalToWorld transforms a local-space surface normal into world space
// using the inverse transpose. The result is not normalized.
func (t Transform) NormalToWorld(n Vec3) Vec3 {
	return toVec3(mgl64.TransformNormal(fromVec3(n), t.invMatrix.Transpose()))
}

func toVec3(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func fromVec3(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
