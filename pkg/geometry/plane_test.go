package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

func TestPlane_Intersect(t *testing.T) {
	plane := NewPlane(core.IdentityTransform(), material.FromColor(core.NewVec3(0.5, 0.5, 0.5)))

	tests := []struct {
		name             string
		origin           core.Vec3
		direction        core.Vec3
		shouldHit        bool
		expectedDistance float64
		expectedNormal   core.Vec3
	}{
		{
			name:             "hit from front",
			origin:           core.NewVec3(0, 0, 2),
			direction:        core.NewVec3(0, 0, -1),
			shouldHit:        true,
			expectedDistance: 2,
			expectedNormal:   core.NewVec3(0, 0, 1),
		},
		{
			name:             "hit from back",
			origin:           core.NewVec3(0.5, -0.5, -3),
			direction:        core.NewVec3(0, 0, 1),
			shouldHit:        true,
			expectedDistance: 3,
			expectedNormal:   core.NewVec3(0, 0, -1),
		},
		{
			name:      "outside the square",
			origin:    core.NewVec3(1.5, 0, 2),
			direction: core.NewVec3(0, 0, -1),
			shouldHit: false,
		},
		{
			name:      "parallel ray",
			origin:    core.NewVec3(0, 0, 1),
			direction: core.NewVec3(1, 0, 0),
			shouldHit: false,
		},
		{
			name:      "pointing away",
			origin:    core.NewVec3(0, 0, 1),
			direction: core.NewVec3(0, 0, 1),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := plane.Intersect(core.NewRay(tt.origin, tt.direction))
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(hit.Distance-tt.expectedDistance) > tolerance {
				t.Errorf("Expected distance %f, got %f", tt.expectedDistance, hit.Distance)
			}
			if !vecNear(hit.Normal, tt.expectedNormal, tolerance) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if !hit.IsEntry {
				t.Error("Expected plane hits to always be entries")
			}
		})
	}
}

func TestPlane_Intersect_RotatedFloor(t *testing.T) {
	// Rotated about x so local z maps onto world -y, scaled to a 4x4 floor
	tr := core.NewTRS(core.NewVec3(0, 0.5, 2), core.NewVec3(math.Pi/2, 0, 0), core.NewVec3(2, 2, 2))
	plane := NewPlane(tr, material.FromColor(core.NewVec3(0.5, 0.5, 0.5)))

	hit, ok := plane.Intersect(core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 1, 0)))
	if !ok {
		t.Fatal("Expected hit on rotated floor")
	}
	if math.Abs(hit.Distance-0.5) > 1e-9 {
		t.Errorf("Expected distance 0.5, got %f", hit.Distance)
	}
	// Normal faces back toward the ray origin
	if hit.Normal.Dot(core.NewVec3(0, -1, 0)) < 1-1e-9 {
		t.Errorf("Expected normal (0,-1,0), got %v", hit.Normal)
	}
}
