package material

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Material describes how a surface responds to light. It is immutable for the
// duration of a render.
type Material struct {
	IOR       float64   `json:"ior"`       // Index of refraction
	Opacity   float64   `json:"opacity"`   // Probability of reflecting rather than refracting, in [0,1]
	Roughness float64   `json:"roughness"` // 0 = mirror, 1 = fully diffuse
	Color     core.Vec3 `json:"color"`     // Albedo multiplied into the path throughput
	Emission  core.Vec3 `json:"emission"`  // Radiance emitted by the surface
}

// FromColor creates an opaque diffuse material
func FromColor(color core.Vec3) Material {
	return Material{
		IOR:       1.0,
		Opacity:   1.0,
		Roughness: 1.0,
		Color:     color,
	}
}

// FromOpacity creates a diffuse material with the given opacity
func FromOpacity(color core.Vec3, opacity float64) Material {
	return Material{
		IOR:       1.0,
		Opacity:   opacity,
		Roughness: 1.0,
		Color:     color,
	}
}

// FromEmission creates an opaque diffuse material that also emits light
func FromEmission(color, emission core.Vec3) Material {
	return Material{
		IOR:       1.0,
		Opacity:   1.0,
		Roughness: 1.0,
		Color:     color,
		Emission:  emission,
	}
}

// NewMirror creates a perfectly specular opaque material
func NewMirror(color core.Vec3) Material {
	return Material{
		IOR:     1.0,
		Opacity: 1.0,
		Color:   color,
	}
}

// NewGlass creates a clear refractive material
func NewGlass(color core.Vec3, ior float64) Material {
	return Material{
		IOR:   ior,
		Color: color,
	}
}

// Validate checks that the material fields are in range
func (m Material) Validate() error {
	if !(m.IOR > 0) {
		return fmt.Errorf("ior must be positive, got %v", m.IOR)
	}
	if m.Opacity < 0 || m.Opacity > 1 {
		return fmt.Errorf("opacity must be in [0,1], got %v", m.Opacity)
	}
	if m.Roughness < 0 || m.Roughness > 1 {
		return fmt.Errorf("roughness must be in [0,1], got %v", m.Roughness)
	}
	if !m.Color.IsFinite() || !m.Emission.IsFinite() {
		return fmt.Errorf("color and emission must be finite")
	}
	if m.Color.X < 0 || m.Color.Y < 0 || m.Color.Z < 0 {
		return fmt.Errorf("color must not be negative, got %v", m.Color)
	}
	if m.Emission.X < 0 || m.Emission.Y < 0 || m.Emission.Z < 0 {
		return fmt.Errorf("emission must not be negative, got %v", m.Emission)
	}
	return nil
}

// IORRatio returns the ratio of indices of refraction across the boundary:
// 1/ior when entering the surface, ior when leaving it.
func (m Material) IORRatio(isEntry bool) float64 {
	if isEntry {
		return 1.0 / m.IOR
	}
	return m.IOR
}
