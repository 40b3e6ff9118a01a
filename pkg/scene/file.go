package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/loaders"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/go-gl/mathgl/mgl64"
	"sigs.k8s.io/yaml"
)

// File is the on-disk scene description, read from YAML or JSON
type File struct {
	Camera  *CameraFile         `json:"camera,omitempty"`
	Skybox  *SkyboxFile         `json:"skybox,omitempty"`
	Meshes  map[string]MeshFile `json:"meshes,omitempty"`
	Objects []ObjectFile        `json:"objects"`
}

// CameraFile places the camera; angles are in degrees
type CameraFile struct {
	Position core.Vec3 `json:"position"`
	Rotate   core.Vec3 `json:"rotate"`
	FOV      float64   `json:"fov"`
}

// SkyboxFile selects a named sky or spells one out in full
type SkyboxFile struct {
	Preset string         `json:"preset,omitempty"` // "default" or "empty"
	Custom *lights.Skybox `json:"custom,omitempty"`
}

// MeshFile names a PLY or glTF file, relative to the scene file
type MeshFile struct {
	Path string `json:"path"`
}

// ObjectFile is one object. Matrix, if given, replaces translate/rotate/scale
// and is read row by row.
type ObjectFile struct {
	Name      string        `json:"name,omitempty"`
	Kind      Kind          `json:"kind"`
	Translate core.Vec3     `json:"translate"`
	Rotate    core.Vec3     `json:"rotate"` // Degrees about X, Y, Z
	Scale     *core.Vec3    `json:"scale,omitempty"`
	Matrix    []float64     `json:"matrix,omitempty"`
	Material  *MaterialFile `json:"material,omitempty"`
	Mesh      string        `json:"mesh,omitempty"`
}

// MaterialFile overrides the fields of an opaque white diffuse material
type MaterialFile struct {
	Color     *core.Vec3 `json:"color,omitempty"`
	Emission  *core.Vec3 `json:"emission,omitempty"`
	IOR       *float64   `json:"ior,omitempty"`
	Opacity   *float64   `json:"opacity,omitempty"`
	Roughness *float64   `json:"roughness,omitempty"`
}

// LoadFile reads a scene description and any meshes it references
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("while reading scene file: %w", err)
	}

	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("while decoding scene file %s: %w", path, err)
	}

	store, err := f.ToStore(filepath.Dir(path), loaders.LoadMesh)
	if err != nil {
		return nil, fmt.Errorf("while building scene from %s: %w", path, err)
	}
	return store, nil
}

// ToStore converts the description into a store, loading meshes through
// load. Mesh paths are resolved against dir.
func (f *File) ToStore(dir string, load func(string) (*loaders.MeshData, error)) (*Store, error) {
	store := NewStore()

	if f.Camera != nil {
		store.Camera = CameraDesc{
			Position: f.Camera.Position,
			Rotation: degreesToRadians(f.Camera.Rotate),
			VFov:     f.Camera.FOV,
		}
		if store.Camera.VFov == 0 {
			store.Camera.VFov = DefaultCamera().VFov
		}
	}

	if f.Skybox != nil {
		switch {
		case f.Skybox.Custom != nil:
			store.Skybox = *f.Skybox.Custom
			store.Skybox.SunDirection = store.Skybox.SunDirection.Normalize()
		case f.Skybox.Preset == "" || f.Skybox.Preset == "default":
			store.Skybox = lights.Default()
		case f.Skybox.Preset == "empty":
			store.Skybox = lights.Empty()
		default:
			return nil, fmt.Errorf("%w: unknown skybox preset %q", ErrInvalidScene, f.Skybox.Preset)
		}
	}

	// Each mesh file is loaded once, however many objects use it
	meshIndex := make(map[string]int)
	for i, obj := range f.Objects {
		desc := ObjectDesc{
			Name:      obj.Name,
			Kind:      obj.Kind,
			Transform: obj.transform(),
			Material:  obj.Material.resolve(),
		}

		if obj.Kind == KindMesh {
			idx, ok := meshIndex[obj.Mesh]
			if !ok {
				mf, found := f.Meshes[obj.Mesh]
				if !found {
					return nil, fmt.Errorf("%w: object %d references unknown mesh %q", ErrInvalidScene, i, obj.Mesh)
				}
				meshPath := mf.Path
				if !filepath.IsAbs(meshPath) {
					meshPath = filepath.Join(dir, meshPath)
				}
				data, err := load(meshPath)
				if err != nil {
					return nil, fmt.Errorf("while loading mesh %q: %w", obj.Mesh, err)
				}
				idx = store.AddMesh(data)
				meshIndex[obj.Mesh] = idx
			}
			desc.Mesh = &idx
		}

		store.AddObject(desc)
	}

	if err := store.Validate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (o ObjectFile) transform() core.Transform {
	if len(o.Matrix) == 16 {
		// mgl64 matrices are column major
		var m mgl64.Mat4
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				m.Set(row, col, o.Matrix[row*4+col])
			}
		}
		return core.NewTransform(m)
	}
	if len(o.Matrix) != 0 {
		// Leave it singular so validation rejects the object
		return core.NewTransform(mgl64.Mat4{})
	}

	scale := core.NewVec3(1, 1, 1)
	if o.Scale != nil {
		scale = *o.Scale
	}
	return core.NewTRS(o.Translate, degreesToRadians(o.Rotate), scale)
}

func (m *MaterialFile) resolve() material.Material {
	mat := material.FromColor(core.NewVec3(1, 1, 1))
	if m == nil {
		return mat
	}
	if m.Color != nil {
		mat.Color = *m.Color
	}
	if m.Emission != nil {
		mat.Emission = *m.Emission
	}
	if m.IOR != nil {
		mat.IOR = *m.IOR
	}
	if m.Opacity != nil {
		mat.Opacity = *m.Opacity
	}
	if m.Roughness != nil {
		mat.Roughness = *m.Roughness
	}
	return mat
}

func degreesToRadians(v core.Vec3) core.Vec3 {
	return v.Multiply(math.Pi / 180)
}
