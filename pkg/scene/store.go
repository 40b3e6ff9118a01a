package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Kind tags the primitive an object is made of
type Kind string

const (
	KindSphere Kind = "sphere"
	KindPlane  Kind = "plane"
	KindMesh   Kind = "mesh"
)

// ObjectDesc is one entry of the flat, ordered object list
type ObjectDesc struct {
	Name      string
	Kind      Kind
	Transform core.Transform
	Material  material.Material
	Mesh      *int // Index into Store.Meshes, set only for KindMesh
}

// CameraDesc is the camera a scene suggests for rendering it
type CameraDesc struct {
	Position core.Vec3 // World-space eye position
	Rotation core.Vec3 // XYZ euler rotation in radians; zero looks down +Z
	VFov     float64   // Vertical field of view in degrees
}

// Transform returns the camera-to-world transform
func (c CameraDesc) Transform() core.Transform {
	return core.NewTRS(c.Position, c.Rotation, core.NewVec3(1, 1, 1))
}

// DefaultCamera sits at the origin looking down +Z with a 90 degree field of view
func DefaultCamera() CameraDesc {
	return CameraDesc{VFov: 90}
}

// Store is the immutable scene input: objects, shared mesh buffers and the sky
type Store struct {
	Objects []ObjectDesc
	Meshes  []geometry.MeshDesc
	Buffers geometry.MeshBuffers
	Skybox  lights.Skybox
	Camera  CameraDesc
}

// NewStore creates an empty store with the default sky and camera
func NewStore() *Store {
	return &Store{
		Skybox: lights.Default(),
		Camera: DefaultCamera(),
	}
}

// AddObject appends an object and returns its index
func (s *Store) AddObject(obj ObjectDesc) int {
	s.Objects = append(s.Objects, obj)
	return len(s.Objects) - 1
}

// AddSphere appends a sphere object
func (s *Store) AddSphere(name string, transform core.Transform, mat material.Material) int {
	return s.AddObject(ObjectDesc{Name: name, Kind: KindSphere, Transform: transform, Material: mat})
}

// AddPlane appends a plane object
func (s *Store) AddPlane(name string, transform core.Transform, mat material.Material) int {
	return s.AddObject(ObjectDesc{Name: name, Kind: KindPlane, Transform: transform, Material: mat})
}

// AddMeshInstance appends an object referencing an existing mesh
func (s *Store) AddMeshInstance(name string, mesh int, transform core.Transform, mat material.Material) int {
	return s.AddObject(ObjectDesc{Name: name, Kind: KindMesh, Transform: transform, Material: mat, Mesh: &mesh})
}

// AddMesh copies mesh data into the shared buffers and returns the index of
// its descriptor. Attributes the mesh lacks are recorded as absent.
func (s *Store) AddMesh(data *loaders.MeshData) int {
	desc := geometry.MeshDesc{
		IndexOffset:   len(s.Buffers.Indices),
		TriangleCount: data.TriangleCount(),
		VertexOffset:  len(s.Buffers.Vertices),
		VertexCount:   len(data.Vertices),
	}
	s.Buffers.Indices = append(s.Buffers.Indices, data.Indices[:3*desc.TriangleCount]...)
	s.Buffers.Vertices = append(s.Buffers.Vertices, data.Vertices...)

	if data.Normals != nil {
		offset := len(s.Buffers.Normals)
		desc.NormalOffset = &offset
		s.Buffers.Normals = append(s.Buffers.Normals, data.Normals...)
	}
	if data.Colors != nil {
		offset := len(s.Buffers.Colors)
		desc.ColorOffset = &offset
		s.Buffers.Colors = append(s.Buffers.Colors, data.Colors...)
	}

	s.Meshes = append(s.Meshes, desc)
	return len(s.Meshes) - 1
}

// Validate checks every object, mesh and the sky. Errors wrap ErrInvalidScene.
func (s *Store) Validate() error {
	for i, desc := range s.Meshes {
		if err := desc.Validate(&s.Buffers); err != nil {
			return fmt.Errorf("%w: mesh %d: %v", ErrInvalidScene, i, err)
		}
	}

	for i, obj := range s.Objects {
		label := obj.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if !obj.Transform.IsInvertible() {
			return fmt.Errorf("%w: object %s: transform is singular", ErrInvalidScene, label)
		}
		if err := obj.Material.Validate(); err != nil {
			return fmt.Errorf("%w: object %s: %v", ErrInvalidScene, label, err)
		}
		switch obj.Kind {
		case KindSphere, KindPlane:
			if obj.Mesh != nil {
				return fmt.Errorf("%w: object %s: %s cannot reference a mesh", ErrInvalidScene, label, obj.Kind)
			}
		case KindMesh:
			if obj.Mesh == nil || *obj.Mesh < 0 || *obj.Mesh >= len(s.Meshes) {
				return fmt.Errorf("%w: object %s: missing or out of range mesh reference", ErrInvalidScene, label)
			}
		default:
			return fmt.Errorf("%w: object %s: unknown kind %q", ErrInvalidScene, label, obj.Kind)
		}
	}

	if err := s.Skybox.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if !(s.Camera.VFov > 0 && s.Camera.VFov < 180) || math.IsNaN(s.Camera.VFov) {
		return fmt.Errorf("%w: camera field of view %v out of range", ErrInvalidScene, s.Camera.VFov)
	}
	return nil
}
