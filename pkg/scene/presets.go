package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

var presets = map[string]func() *Store{
	"default": NewDefaultScene,
	"cornell": NewCornellScene,
	"glass":   NewGlassScene,
}

// Preset returns a freshly built store for a built-in scene
func Preset(name string) (*Store, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, PresetNames())
	}
	return build(), nil
}

// PresetNames lists the built-in scenes in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func uniform(s float64) core.Vec3 { return core.NewVec3(s, s, s) }

// NewDefaultScene creates the demo scene: a red diffuse sphere, a green
// mirror, a grey floor, a small yellow light and a glass bead
func NewDefaultScene() *Store {
	s := NewStore()
	noRotation := core.Vec3{}

	s.AddSphere("red", core.NewTRS(core.NewVec3(0, 0, 2), noRotation, uniform(0.5)),
		material.FromColor(core.NewVec3(1, 0, 0)))
	s.AddSphere("mirror", core.NewTRS(core.NewVec3(-1, 0, 2), noRotation, uniform(0.4)),
		material.NewMirror(core.NewVec3(0, 1, 0)))
	s.AddPlane("floor", core.NewTRS(core.NewVec3(0, 0.5, 2), core.NewVec3(math.Pi/2, 0, 0), uniform(1)),
		material.FromColor(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere("light", core.NewTRS(core.NewVec3(-0.5, 0.3, 1.5), noRotation, uniform(0.2)),
		material.FromEmission(core.NewVec3(1, 1, 0), core.NewVec3(1, 1, 0)))

	glass := material.NewGlass(core.NewVec3(1, 1, 1), 1.5)
	glass.Roughness = 1
	s.AddSphere("glass", core.NewTRS(core.NewVec3(-0.3, 0.1, 1.2), noRotation, uniform(0.15)), glass)

	return s
}

// NewCornellScene creates a closed box lit only by a ceiling panel
func NewCornellScene() *Store {
	s := NewStore()
	s.Skybox = lights.Empty()
	s.Camera.VFov = 60

	const depth = 3.0
	white := material.FromColor(core.NewVec3(0.73, 0.73, 0.73))
	red := material.FromColor(core.NewVec3(0.65, 0.05, 0.05))
	green := material.FromColor(core.NewVec3(0.12, 0.45, 0.15))

	// Up is -Y: the floor sits at y=+1 and the ceiling at y=-1
	horizontal := core.NewVec3(math.Pi/2, 0, 0)
	vertical := core.NewVec3(0, math.Pi/2, 0)
	s.AddPlane("floor", core.NewTRS(core.NewVec3(0, 1, depth), horizontal, uniform(1)), white)
	s.AddPlane("ceiling", core.NewTRS(core.NewVec3(0, -1, depth), horizontal, uniform(1)), white)
	s.AddPlane("back", core.NewTRS(core.NewVec3(0, 0, depth+1), core.Vec3{}, uniform(1)), white)
	s.AddPlane("left", core.NewTRS(core.NewVec3(-1, 0, depth), vertical, uniform(1)), red)
	s.AddPlane("right", core.NewTRS(core.NewVec3(1, 0, depth), vertical, uniform(1)), green)
	s.AddPlane("lamp", core.NewTRS(core.NewVec3(0, -0.99, depth), horizontal, uniform(0.3)),
		material.FromEmission(core.NewVec3(1, 1, 1), core.NewVec3(15, 15, 15)))

	s.AddSphere("mirror", core.NewTRS(core.NewVec3(-0.4, 0.6, depth+0.3), core.Vec3{}, uniform(0.4)),
		material.NewMirror(core.NewVec3(0.9, 0.9, 0.9)))
	s.AddSphere("glass", core.NewTRS(core.NewVec3(0.45, 0.65, depth-0.3), core.Vec3{}, uniform(0.35)),
		material.NewGlass(core.NewVec3(1, 1, 1), 1.5))

	return s
}

// NewGlassScene creates refractive spheres and a colored crystal over a floor
func NewGlassScene() *Store {
	s := NewStore()

	s.AddPlane("floor", core.NewTRS(core.NewVec3(0, 0.5, 3), core.NewVec3(math.Pi/2, 0, 0), uniform(3)),
		material.FromColor(core.NewVec3(0.8, 0.8, 0.8)))
	s.AddSphere("glass", core.NewTRS(core.NewVec3(-0.6, 0.1, 2.5), core.Vec3{}, uniform(0.4)),
		material.NewGlass(core.NewVec3(1, 1, 1), 1.5))
	s.AddSphere("water", core.NewTRS(core.NewVec3(0.7, 0.2, 2.8), core.Vec3{}, uniform(0.3)),
		material.NewGlass(core.NewVec3(0.8, 0.9, 1), 1.33))

	frosted := material.FromOpacity(core.NewVec3(0.9, 0.9, 1), 0.3)
	frosted.IOR = 1.5
	frosted.Roughness = 0.2
	s.AddSphere("frosted", core.NewTRS(core.NewVec3(0.1, 0.3, 3.6), core.Vec3{}, uniform(0.2)), frosted)

	crystal := s.AddMesh(Octahedron())
	gem := material.NewGlass(core.NewVec3(1, 1, 1), 2.4)
	gem.Opacity = 0.5
	s.AddMeshInstance("crystal", crystal,
		core.NewTRS(core.NewVec3(0.1, 0.15, 2.2), core.NewVec3(0, math.Pi/4, 0), uniform(0.25)), gem)

	return s
}

// Octahedron returns a unit octahedron with outward flat winding and a
// distinct color per vertex
func Octahedron() *loaders.MeshData {
	return &loaders.MeshData{
		Vertices: []core.Vec3{
			{X: 1}, {X: -1},
			{Y: 1}, {Y: -1},
			{Z: 1}, {Z: -1},
		},
		Colors: []core.Vec3{
			{X: 1, Y: 0.3, Z: 0.3}, {X: 0.3, Y: 1, Z: 0.3},
			{X: 0.3, Y: 0.3, Z: 1}, {X: 1, Y: 1, Z: 0.3},
			{X: 1, Y: 0.3, Z: 1}, {X: 0.3, Y: 1, Z: 1},
		},
		Indices: []uint32{
			0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0, 4,
			2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3, 5,
		},
	}
}
