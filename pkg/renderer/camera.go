package renderer

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Camera generates jittered primary rays for pixel coordinates. Image x grows
// along camera +X and image y along camera +Y; the camera looks down +Z.
type Camera struct {
	transform core.Transform
	origin    core.Vec3
	tanHalf   float64 // tan(vfov/2)
	aspect    float64
	width     int
	height    int
}

// NewCamera creates a camera from frame parameters
func NewCamera(params FrameParams) *Camera {
	return &Camera{
		transform: params.Camera,
		origin:    params.Camera.PointToWorld(core.Vec3{}),
		tanHalf:   math.Tan(params.VFov / 2),
		aspect:    float64(params.Width) / float64(params.Height),
		width:     params.Width,
		height:    params.Height,
	}
}

// GetRay returns a ray through a random point inside pixel (x, y)
func (c *Camera) GetRay(x, y int, sampler core.Sampler) core.Ray {
	jx, jy := sampler.NextFloat(), sampler.NextFloat()
	return c.GetRayAt((float64(x)+jx)/float64(c.width), (float64(y)+jy)/float64(c.height))
}

// GetRayAt returns the ray through normalized image coordinates in [0,1]
func (c *Camera) GetRayAt(s, t float64) core.Ray {
	ndcX := 2*s - 1
	ndcY := 2*t - 1
	local := core.NewVec3(ndcX*c.aspect*c.tanHalf, ndcY*c.tanHalf, 1)
	return core.NewRay(c.origin, c.transform.VectorToWorld(local))
}
