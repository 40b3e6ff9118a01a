package material

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

const opticsTolerance = 1e-9

func TestReflect(t *testing.T) {
	in := core.NewVec3(1, -1, 0).Normalize()
	got := Reflect(in, core.NewVec3(0, 1, 0))
	want := core.NewVec3(1, 1, 0).Normalize()
	if got.Subtract(want).Length() > opticsTolerance {
		t.Errorf("Reflect = %v, want %v", got, want)
	}
}

func TestRefract_EqualIndicesIsUndeviated(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	directions := []core.Vec3{
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, -1, 0).Normalize(),
		core.NewVec3(0.3, -0.2, 0.7).Normalize(),
	}
	for _, d := range directions {
		got, ok := Refract(d, normal, 1.0)
		if !ok {
			t.Fatalf("Unexpected total internal reflection for %v", d)
		}
		if got.Subtract(d).Length() > opticsTolerance {
			t.Errorf("Refract(%v, ratio 1) = %v, want undeviated", d, got)
		}
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	in := core.NewVec3(1, -1, 0).Normalize()
	eta := 1.0 / 1.5

	out, ok := Refract(in, normal, eta)
	if !ok {
		t.Fatal("Expected refraction entering glass")
	}

	sinI := math.Sqrt(1 - math.Pow(in.Dot(normal), 2))
	sinT := math.Sqrt(1 - math.Pow(out.Dot(normal), 2))
	if math.Abs(sinI*eta-sinT) > opticsTolerance {
		t.Errorf("Snell's law violated: sinI*eta=%f sinT=%f", sinI*eta, sinT)
	}
	if math.Abs(out.Length()-1) > opticsTolerance {
		t.Errorf("Refracted direction not unit length: %f", out.Length())
	}
	if out.Y >= 0 {
		t.Errorf("Refracted ray should continue through the surface, got %v", out)
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	// Leaving glass at a grazing angle
	normal := core.NewVec3(0, 1, 0)
	in := core.NewVec3(1, -0.2, 0).Normalize()
	if _, ok := Refract(in, normal, 1.5); ok {
		t.Error("Expected total internal reflection")
	}
}

func TestFaceForward(t *testing.T) {
	n := core.NewVec3(0, 0, 1)
	if got := FaceForward(n, core.NewVec3(0, 0, -1)); got != n {
		t.Errorf("FaceForward kept wrong side: %v", got)
	}
	if got := FaceForward(n, core.NewVec3(0, 0, 1)); got != n.Negate() {
		t.Errorf("FaceForward did not flip: %v", got)
	}
}
