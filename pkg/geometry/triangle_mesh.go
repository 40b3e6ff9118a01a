package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// MeshBuffers holds the flat vertex attribute and index arrays shared by
// every mesh in a scene
type MeshBuffers struct {
	Indices  []uint32    // Three entries per triangle, relative to a mesh's vertex offset
	Vertices []core.Vec3 // Vertex positions
	Normals  []core.Vec3 // Vertex normals
	Colors   []core.Vec3 // Vertex colors
}

// MeshDesc locates one mesh inside MeshBuffers. Optional attributes are nil
// when the mesh does not carry them.
type MeshDesc struct {
	IndexOffset   int  `json:"indexOffset"`            // First index of the mesh's first triangle
	TriangleCount int  `json:"triangleCount"`          // Number of triangles
	VertexOffset  int  `json:"vertexOffset"`           // Base of the mesh's vertex positions
	VertexCount   int  `json:"vertexCount"`            // Number of vertices
	NormalOffset  *int `json:"normalOffset,omitempty"` // Base of the vertex normals, nil if absent
	ColorOffset   *int `json:"colorOffset,omitempty"`  // Base of the vertex colors, nil if absent
}

// Validate checks that every range of the descriptor lies inside the buffers
func (d MeshDesc) Validate(buf *MeshBuffers) error {
	if d.TriangleCount < 0 || d.VertexCount < 0 || d.IndexOffset < 0 || d.VertexOffset < 0 {
		return fmt.Errorf("negative mesh range")
	}
	if d.IndexOffset+3*d.TriangleCount > len(buf.Indices) {
		return fmt.Errorf("index range [%d,%d) exceeds %d indices", d.IndexOffset, d.IndexOffset+3*d.TriangleCount, len(buf.Indices))
	}
	if d.VertexOffset+d.VertexCount > len(buf.Vertices) {
		return fmt.Errorf("vertex range exceeds %d vertices", len(buf.Vertices))
	}
	if d.NormalOffset != nil && (*d.NormalOffset < 0 || *d.NormalOffset+d.VertexCount > len(buf.Normals)) {
		return fmt.Errorf("normal range exceeds %d normals", len(buf.Normals))
	}
	if d.ColorOffset != nil && (*d.ColorOffset < 0 || *d.ColorOffset+d.VertexCount > len(buf.Colors)) {
		return fmt.Errorf("color range exceeds %d colors", len(buf.Colors))
	}
	for i := 0; i < 3*d.TriangleCount; i++ {
		if idx := buf.Indices[d.IndexOffset+i]; int(idx) >= d.VertexCount {
			return fmt.Errorf("triangle %d references vertex %d of %d", i/3, idx, d.VertexCount)
		}
	}
	return nil
}

// TriangleMesh is an instance of a shared indexed mesh placed by a transform
type TriangleMesh struct {
	Transform core.Transform
	Material  material.Material
	desc      MeshDesc
	buffers   *MeshBuffers
}

// NewTriangleMesh creates a mesh instance. The descriptor must already have
// been validated against the buffers.
func NewTriangleMesh(transform core.Transform, mat material.Material, desc MeshDesc, buffers *MeshBuffers) *TriangleMesh {
	return &TriangleMesh{
		Transform: transform,
		Material:  mat,
		desc:      desc,
		buffers:   buffers,
	}
}

// GetTriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) GetTriangleCount() int {
	return tm.desc.TriangleCount
}

// triangle returns the three vertex indices of triangle i relative to the mesh
func (tm *TriangleMesh) triangle(i int) (uint32, uint32, uint32) {
	base := tm.desc.IndexOffset + 3*i
	return tm.buffers.Indices[base], tm.buffers.Indices[base+1], tm.buffers.Indices[base+2]
}

func (tm *TriangleMesh) vertex(idx uint32) core.Vec3 {
	return tm.buffers.Vertices[tm.desc.VertexOffset+int(idx)]
}

// IntersectLocal scans every triangle with a local-space ray and keeps the
// nearest one
func (tm *TriangleMesh) IntersectLocal(local core.Ray) (TriHit, bool) {
	best := TriHit{TriangleID: -1, Distance: math.Inf(1)}
	for i := 0; i < tm.desc.TriangleCount; i++ {
		i0, i1, i2 := tm.triangle(i)
		hit, ok := IntersectTriangle(local, tm.vertex(i0), tm.vertex(i1), tm.vertex(i2))
		if ok && hit.Distance < best.Distance {
			hit.TriangleID = i
			best = hit
		}
	}
	return best, best.TriangleID >= 0
}

// Intersect tests the ray against every triangle of the mesh
func (tm *TriangleMesh) Intersect(ray core.Ray) (HitInfo, bool) {
	local := tm.Transform.RayToLocal(ray)

	tri, ok := tm.IntersectLocal(local)
	if !ok {
		return NoHit(), false
	}

	i0, i1, i2 := tm.triangle(tri.TriangleID)

	var normal core.Vec3
	if tm.desc.NormalOffset == nil {
		v0 := tm.vertex(i0)
		normal = tm.vertex(i1).Subtract(v0).Cross(tm.vertex(i2).Subtract(v0))
	} else {
		// Interpolated normal is not unit length; worldHit normalizes it once
		base := *tm.desc.NormalOffset
		n := tm.buffers.Normals
		normal = Barycentric(n[base+int(i0)], n[base+int(i1)], n[base+int(i2)], tri.U, tri.V)
	}

	mat := tm.Material
	if tm.desc.ColorOffset != nil {
		base := *tm.desc.ColorOffset
		c := tm.buffers.Colors
		vcolor := Barycentric(c[base+int(i0)], c[base+int(i1)], c[base+int(i2)], tri.U, tri.V)
		mat.Color = mat.Color.MultiplyVec(vcolor)
	}

	isEntry := local.Direction.Dot(normal) < 0
	localPos := local.Origin.Add(local.Direction.Multiply(tri.Distance))

	return worldHit(tm.Transform, ray, localPos, normal, mat, isEntry)
}
