package loaders

import (
	"path/filepath"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// writeTestGLB saves a two-primitive document: an indexed triangle with
// normals and a non-indexed triangle without
func writeTestGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()

	pos0 := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	nrm0 := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx0 := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	pos1 := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})

	doc.Meshes = []*gltf.Mesh{{
		Name: "pair",
		Primitives: []*gltf.Primitive{
			{
				Attributes: map[string]int{"POSITION": pos0, "NORMAL": nrm0},
				Indices:    gltf.Index(idx0),
				Mode:       gltf.PrimitiveTriangles,
			},
			{
				Attributes: map[string]int{"POSITION": pos1},
				Mode:       gltf.PrimitiveTriangles,
			},
		},
	}}

	path := filepath.Join(t.TempDir(), "pair.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary failed: %v", err)
	}
	return path
}

func TestLoadGLTF(t *testing.T) {
	mesh, err := LoadMesh(writeTestGLB(t))
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	wantVertices := []core.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	if diff := cmp.Diff(wantVertices, mesh.Vertices, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}

	// The second primitive is offset past the first one's vertices
	if diff := cmp.Diff([]uint32{0, 1, 2, 3, 4, 5}, mesh.Indices); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}

	// Normals are dropped because only one primitive carries them
	if mesh.Normals != nil {
		t.Errorf("expected nil normals, got %v", mesh.Normals)
	}
}

func TestLoadGLTF_MissingFile(t *testing.T) {
	if _, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected error for missing file")
	}
}
