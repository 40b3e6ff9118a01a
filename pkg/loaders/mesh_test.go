package loaders

import (
	"errors"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestMeshData_Validate(t *testing.T) {
	tri := []core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}

	tests := []struct {
		name    string
		mesh    MeshData
		wantErr bool
	}{
		{"valid", MeshData{Vertices: tri, Indices: []uint32{0, 1, 2}}, false},
		{"valid with attributes", MeshData{Vertices: tri, Normals: tri, Colors: tri, Indices: []uint32{0, 1, 2}}, false},
		{"partial triangle", MeshData{Vertices: tri, Indices: []uint32{0, 1}}, true},
		{"index out of range", MeshData{Vertices: tri, Indices: []uint32{0, 1, 3}}, true},
		{"short normals", MeshData{Vertices: tri, Normals: tri[:2], Indices: []uint32{0, 1, 2}}, true},
		{"short colors", MeshData{Vertices: tri, Colors: tri[:1], Indices: []uint32{0, 1, 2}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMesh_UnsupportedFormat(t *testing.T) {
	_, err := LoadMesh("model.stl")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
