package lights

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestSkybox_Horizon(t *testing.T) {
	sky := Default()

	// Horizontal directions away from the sun return exactly the horizon color
	got := sky.Sample(core.NewVec3(-1, 0, 1))
	if diff := cmp.Diff(sky.HorizonColor, got, approx); diff != "" {
		t.Errorf("horizon color mismatch (-want +got):\n%s", diff)
	}
}

func TestSkybox_Saturation(t *testing.T) {
	sky := Empty()
	sky.GroundColor = core.NewVec3(1, 0, 0)
	sky.HorizonColor = core.NewVec3(0, 1, 0)
	sky.SkyColor = core.NewVec3(0, 0, 1)

	side := math.Sqrt(1 - 0.125*0.125)
	tests := []struct {
		name string
		dir  core.Vec3
		want core.Vec3
	}{
		{"straight up", core.NewVec3(0, -1, 0), sky.SkyColor},
		{"straight down", core.NewVec3(0, 1, 0), sky.GroundColor},
		{"slightly up", core.NewVec3(0, -0.125, side), core.NewVec3(0, 0.5, 0.5)},
		{"slightly down", core.NewVec3(0, 0.125, side), core.NewVec3(0.5, 0.5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sky.Sample(tt.dir)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Sample(%v) mismatch (-want +got):\n%s", tt.dir, diff)
			}
		})
	}
}

func TestSkybox_Continuity(t *testing.T) {
	sky := Default()

	// Sweep from straight down to straight up through the sun and the horizon
	const steps = 4000
	sun := sky.SunDirection
	prev := sky.Sample(core.NewVec3(0, 1, 0))
	for i := 1; i <= steps; i++ {
		angle := math.Pi * float64(i) / steps
		dir := core.NewVec3(sun.X*math.Sin(angle), math.Cos(angle), sun.Z*math.Sin(angle))
		cur := sky.Sample(dir)
		if cur.Subtract(prev).Length() > 0.05 {
			t.Fatalf("discontinuity at step %d: %v -> %v", i, prev, cur)
		}
		prev = cur
	}
}

func TestSkybox_Sun(t *testing.T) {
	sky := Default()
	noSun := sky
	noSun.SunRadius = 1

	center := sky.Sample(sky.SunDirection)
	want := noSun.Sample(sky.SunDirection).Add(sky.SunColor)
	if diff := cmp.Diff(want, center, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("sun center mismatch (-want +got):\n%s", diff)
	}

	// Directions outside the disc see no sun
	away := core.NewVec3(-1, 0, 1)
	if diff := cmp.Diff(noSun.Sample(away), sky.Sample(away), approx); diff != "" {
		t.Errorf("sun leaks outside its disc (-want +got):\n%s", diff)
	}
}

func TestSkybox_Empty(t *testing.T) {
	got := Empty().Sample(core.NewVec3(0.2, -0.9, 0.1))
	if diff := cmp.Diff(core.Vec3{}, got); diff != "" {
		t.Errorf("empty sky is not black (-want +got):\n%s", diff)
	}
}

func TestSkybox_Validate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default sky invalid: %v", err)
	}

	bad := Default()
	bad.SkyColor = core.NewVec3(math.NaN(), 0, 0)
	if err := bad.Validate(); !errors.Is(err, ErrInvalidSkybox) {
		t.Errorf("expected ErrInvalidSkybox, got %v", err)
	}

	bad = Default()
	bad.SunDirection = core.Vec3{}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidSkybox) {
		t.Errorf("expected ErrInvalidSkybox, got %v", err)
	}
}
