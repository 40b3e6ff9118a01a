package lights

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// SkySteepness controls how quickly the gradient saturates away from the horizon
const SkySteepness = 4.0

// Skybox is a procedural environment: a gradient from the ground color through
// the horizon to the sky, plus an optional sun disc. Up is the -Y direction.
type Skybox struct {
	GroundColor  core.Vec3 `json:"groundColor"`
	HorizonColor core.Vec3 `json:"horizonColor"`
	SkyColor     core.Vec3 `json:"skyColor"`
	SunColor     core.Vec3 `json:"sunColor"`
	SunDirection core.Vec3 `json:"sunDirection"` // Unit vector toward the sun
	SunRadius    float64   `json:"sunRadius"`    // Cosine threshold; 1 disables the sun
}

// Default returns the daylight sky used by the built-in scenes
func Default() Skybox {
	return Skybox{
		GroundColor:  core.NewVec3(0.3, 0.15, 0.075),
		HorizonColor: core.NewVec3(0.7, 0.9, 1.0),
		SkyColor:     core.NewVec3(0.0, 0.7, 0.8),
		SunColor:     core.NewVec3(2.0, 2.0, 1.4),
		SunDirection: core.NewVec3(0.577350269, -0.577350269, -0.577350269),
		SunRadius:    0.8,
	}
}

// Empty returns a black sky, leaving emissive objects as the only light
func Empty() Skybox {
	return Skybox{
		SunDirection: core.NewVec3(0, -1, 0),
		SunRadius:    1.0,
	}
}

// Sample returns the radiance arriving from direction dir
func (s Skybox) Sample(dir core.Vec3) core.Vec3 {
	dir = dir.Normalize()

	k := -dir.Y * SkySteepness
	if k > 1 {
		k = 1
	} else if k < -1 {
		k = -1
	}

	var color core.Vec3
	if k < 0 {
		color = s.HorizonColor.Lerp(s.GroundColor, -k)
	} else {
		color = s.HorizonColor.Lerp(s.SkyColor, k)
	}

	// Sun intensity ramps from zero at the disc edge to full at its center
	if s.SunRadius < 1 {
		if d := dir.Dot(s.SunDirection); d > s.SunRadius {
			color = color.Add(s.SunColor.Multiply((d - s.SunRadius) / (1 - s.SunRadius)))
		}
	}

	return color
}

// Validate checks that the sky holds finite colors and a usable sun
func (s Skybox) Validate() error {
	for _, c := range []core.Vec3{s.GroundColor, s.HorizonColor, s.SkyColor, s.SunColor} {
		if !c.IsFinite() {
			return ErrInvalidSkybox
		}
	}
	if s.SunRadius < 1 && s.SunDirection.LengthSquared() == 0 {
		return ErrInvalidSkybox
	}
	return nil
}
