package renderer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

func defaultScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.Build(scene.NewDefaultScene())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return s
}

func TestRenderPixel_OutOfBoundsIsNoOp(t *testing.T) {
	params := testParams(4, 3)
	sc := defaultScene(t)
	tracer := integrator.NewPathTracingIntegrator(params.Budget)
	camera := NewCamera(params)
	buf := NewAccumBuffer(4, 3)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		if _, ok := RenderPixel(params, camera, sc, tracer, buf, p[0], p[1]); ok {
			t.Errorf("RenderPixel(%v) reported a sample", p)
		}
	}
	if diff := cmp.Diff(make([]Accum, 12), buf.Pix); diff != "" {
		t.Errorf("Out-of-bounds pixels wrote to the buffer (-want +got):\n%s", diff)
	}
}

func TestRenderPixel_DeterministicPerFrame(t *testing.T) {
	params := testParams(8, 8)
	sc := defaultScene(t)
	tracer := integrator.NewPathTracingIntegrator(params.Budget)
	camera := NewCamera(params)

	a := NewAccumBuffer(8, 8)
	b := NewAccumBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			RenderPixel(params, camera, sc, tracer, a, x, y)
		}
	}
	// Reverse order: each pixel's stream depends only on its own seed
	for y := 7; y >= 0; y-- {
		for x := 7; x >= 0; x-- {
			RenderPixel(params, camera, sc, tracer, b, x, y)
		}
	}
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Errorf("Pixel results depend on evaluation order (-a +b):\n%s", diff)
	}
}

func TestRenderPixel_AuxHoldsBounces(t *testing.T) {
	params := testParams(8, 8)
	sc := defaultScene(t)
	tracer := integrator.NewPathTracingIntegrator(params.Budget)
	buf := NewAccumBuffer(8, 8)

	result, ok := RenderPixel(params, NewCamera(params), sc, tracer, buf, 4, 4)
	if !ok {
		t.Fatal("Expected in-bounds pixel to render")
	}
	if got := buf.At(4, 4).A; got != float64(result.Bounces) {
		t.Errorf("Aux channel = %v, want bounce count %d", got, result.Bounces)
	}
	if !result.State.Terminal() {
		t.Errorf("Expected a terminal state, got %v", result.State)
	}
}
