package renderer

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
)

// RenderPixel traces one path through pixel (x, y) and folds it into the
// accumulator. Coordinates outside the image are ignored and report false.
// The pixel's random stream depends only on the frame counter and position.
func RenderPixel(params FrameParams, camera *Camera, scene integrator.Scene, tracer integrator.Integrator, buf *AccumBuffer, x, y int) (integrator.PathResult, bool) {
	if x < 0 || y < 0 || x >= params.Width || y >= params.Height || !buf.InBounds(x, y) {
		return integrator.PathResult{}, false
	}

	rng := core.NewPixelRNG(params.FrameCounter, x, y, params.Width)
	ray := camera.GetRay(x, y, rng)
	result := tracer.Trace(ray, scene, rng)

	buf.Accumulate(x, y, params.IsReset(), result.Radiance, float64(result.Bounces))
	return result, true
}
