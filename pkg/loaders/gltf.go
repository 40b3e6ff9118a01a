package loaders

import (
	"fmt"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/golang/glog"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF loads every triangle primitive of a .gltf or .glb file into a
// single mesh. Node transforms are ignored; meshes are read in their own
// space. Normals and colors are kept only when every primitive has them.
func LoadGLTF(filename string) (*MeshData, error) {
	startTime := time.Now()

	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", filename, err)
	}

	mesh, err := readGLTFDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", filename, err)
	}

	glog.V(1).Infof("Loaded glTF %s: %d vertices, %d triangles in %v",
		filename, len(mesh.Vertices), mesh.TriangleCount(), time.Since(startTime))

	return mesh, nil
}

func readGLTFDocument(doc *gltf.Document) (*MeshData, error) {
	mesh := &MeshData{}
	allNormals, allColors := true, true
	var normals, colors []core.Vec3

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				glog.Warningf("gltf: mesh %d primitive %d: skipping non-triangle mode %v", mi, pi, prim.Mode)
				continue
			}

			p, err := readGLTFPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}

			base := uint32(len(mesh.Vertices))
			mesh.Vertices = append(mesh.Vertices, p.Vertices...)
			for _, idx := range p.Indices {
				mesh.Indices = append(mesh.Indices, base+idx)
			}

			allNormals = allNormals && p.Normals != nil
			allColors = allColors && p.Colors != nil
			normals = append(normals, p.Normals...)
			colors = append(colors, p.Colors...)
		}
	}

	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("no triangle primitives")
	}
	if allNormals {
		mesh.Normals = normals
	}
	if allColors {
		mesh.Colors = colors
	}
	return mesh, nil
}

// readGLTFPrimitive converts one glTF triangle primitive
func readGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*MeshData, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	out := &MeshData{Vertices: make([]core.Vec3, len(positions))}
	for i, p := range positions {
		out.Vertices[i] = core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		out.Normals = make([]core.Vec3, len(normals))
		for i, n := range normals {
			out.Normals[i] = core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2]))
		}
	}

	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		colors, err := modeler.ReadColor(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("colors: %w", err)
		}
		out.Colors = make([]core.Vec3, len(colors))
		for i, c := range colors {
			out.Colors[i] = core.NewVec3(float64(c[0])/255.0, float64(c[1])/255.0, float64(c[2])/255.0)
		}
	}

	if prim.Indices != nil {
		out.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		// Non-indexed primitives list vertices in triangle order
		out.Indices = make([]uint32, len(positions))
		for i := range out.Indices {
			out.Indices[i] = uint32(i)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
