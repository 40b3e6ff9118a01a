package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
)

// Scene is a validated store turned into intersectable shapes. It is safe for
// concurrent use by any number of pixel tasks.
type Scene struct {
	Shapes []geometry.Shape // Objects in scan order
	Names  []string         // Object names, parallel to Shapes
	Skybox lights.Skybox
	Camera CameraDesc
}

// Build validates the store and creates a shape for every object
func Build(store *Store) (*Scene, error) {
	if err := store.Validate(); err != nil {
		return nil, err
	}

	// Buffers are shared by every mesh instance
	buffers := &store.Buffers

	s := &Scene{
		Shapes: make([]geometry.Shape, 0, len(store.Objects)),
		Names:  make([]string, 0, len(store.Objects)),
		Skybox: store.Skybox,
		Camera: store.Camera,
	}
	for _, obj := range store.Objects {
		var shape geometry.Shape
		switch obj.Kind {
		case KindSphere:
			shape = geometry.NewSphere(obj.Transform, obj.Material)
		case KindPlane:
			shape = geometry.NewPlane(obj.Transform, obj.Material)
		case KindMesh:
			shape = geometry.NewTriangleMesh(obj.Transform, obj.Material, store.Meshes[*obj.Mesh], buffers)
		}
		s.Shapes = append(s.Shapes, shape)
		s.Names = append(s.Names, obj.Name)
	}
	return s, nil
}

// Intersect scans every object and returns the nearest hit, or NoHit().
// Objects at exactly equal distance resolve to the first in scan order.
func (s *Scene) Intersect(ray core.Ray) geometry.HitInfo {
	nearest := geometry.NoHit()
	for id, shape := range s.Shapes {
		hit, ok := shape.Intersect(ray)
		if ok && hit.Distance < nearest.Distance {
			hit.ObjectID = id
			nearest = hit
		}
	}
	return nearest
}

// Sky returns the environment radiance for a ray direction
func (s *Scene) Sky(direction core.Vec3) core.Vec3 {
	return s.Skybox.Sample(direction)
}

// ObjectCount returns the number of objects in the scan
func (s *Scene) ObjectCount() int {
	return len(s.Shapes)
}
