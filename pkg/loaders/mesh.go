package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// ErrUnsupportedFormat is returned for mesh files with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// MeshData is a triangle mesh as read from disk. Optional attributes are nil
// when the file does not carry them; when present they have one entry per
// vertex.
type MeshData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3
	Colors   []core.Vec3
	Indices  []uint32 // Three entries per triangle
}

// TriangleCount returns the number of triangles in the mesh
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks attribute lengths and index ranges
func (m *MeshData) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	if m.Normals != nil && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%d normals for %d vertices", len(m.Normals), len(m.Vertices))
	}
	if m.Colors != nil && len(m.Colors) != len(m.Vertices) {
		return fmt.Errorf("%d colors for %d vertices", len(m.Colors), len(m.Vertices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at position %d out of range for %d vertices", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// LoadMesh loads a PLY, OBJ or glTF mesh, picking the format by file extension
func LoadMesh(filename string) (*MeshData, error) {
	var (
		mesh *MeshData
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".ply":
		mesh, err = LoadPLY(filename)
	case ".obj":
		mesh, err = LoadOBJ(filename)
	case ".gltf", ".glb":
		mesh, err = LoadGLTF(filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh %s: %w", filename, err)
	}
	return mesh, nil
}
