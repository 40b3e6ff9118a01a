package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3
f 1/1 3/3 4/4
`

func TestReadOBJ_DedupesCorners(t *testing.T) {
	mesh, err := ReadOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}

	wantVertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	if diff := cmp.Diff(wantVertices, mesh.Vertices); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{0, 1, 2, 0, 2, 3}, mesh.Indices); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}
	if mesh.Normals != nil {
		t.Errorf("expected nil normals, got %v", mesh.Normals)
	}
	if mesh.Colors != nil {
		t.Errorf("expected nil colors, got %v", mesh.Colors)
	}
}

func TestReadOBJ_SplitsCornersByAttribute(t *testing.T) {
	// Same position with two different normals becomes two vertices
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vn 0 0 -1
vn -1 0 0
f 1//1 2//1 3//1
f 1//2 3//2 4//2
`
	mesh, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if len(mesh.Vertices) != 6 {
		t.Errorf("expected 6 vertices, got %d", len(mesh.Vertices))
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Fatalf("expected %d normals, got %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if mesh.Normals[3] != core.NewVec3(-1, 0, 0) {
		t.Errorf("expected second face normal (-1,0,0), got %v", mesh.Normals[3])
	}
	if err := mesh.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestReadOBJ_SkipsNonTriangles(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
f -4 -3 -2
`
	mesh, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ failed: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
	if diff := cmp.Diff([]uint32{0, 1, 2}, mesh.Indices); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}
}

func TestReadOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"bad coordinate", "v 0 x 0\n"},
		{"no faces", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
		{"mixed normals", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadOBJ(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadOBJ_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", mesh.TriangleCount())
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
