package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

const (
	// HitEpsilon is the minimum ray parameter accepted as a hit
	HitEpsilon = 1e-4
	// ParallelEpsilon rejects rays that are parallel to a plane or triangle
	ParallelEpsilon = 1e-8
)

// HitInfo contains information about the nearest ray-object intersection
type HitInfo struct {
	Position core.Vec3         // World-space intersection point
	Normal   core.Vec3         // Unit world-space surface normal
	Distance float64           // Distance from the ray origin, +Inf on a miss
	ObjectID int               // Index of the hit object in scan order, -1 on a miss
	Material material.Material // Material snapshot after vertex-color modulation
	IsEntry  bool              // Whether the ray enters the object
}

// NoHit returns the hit-at-infinity sentinel
func NoHit() HitInfo {
	return HitInfo{Distance: math.Inf(1), ObjectID: -1}
}

// IsHit reports whether the record describes a real intersection
func (h HitInfo) IsHit() bool {
	return !math.IsInf(h.Distance, 1)
}

// TriHit is the result of a single ray-triangle test
type TriHit struct {
	TriangleID int     // Triangle index within the mesh
	U, V       float64 // Barycentric weights of the second and third vertex
	Distance   float64 // Ray parameter of the hit
}

// worldHit finishes a local-space hit: it moves the point and normal back to
// world space and measures the distance from the incoming ray origin.
func worldHit(tr core.Transform, ray core.Ray, localPos, localNormal core.Vec3, mat material.Material, isEntry bool) (HitInfo, bool) {
	pos := tr.PointToWorld(localPos)
	normal := tr.NormalToWorld(localNormal).Normalize()
	distance := pos.Subtract(ray.Origin).Length()
	if !pos.IsFinite() || math.IsNaN(distance) {
		return NoHit(), false
	}
	return HitInfo{
		Position: pos,
		Normal:   normal,
		Distance: distance,
		ObjectID: -1,
		Material: mat,
		IsEntry:  isEntry,
	}, true
}
