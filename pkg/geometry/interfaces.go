package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Shape is anything a ray can be tested against. Intersect reports the
// nearest hit past HitEpsilon; on a miss it returns NoHit() and false.
type Shape interface {
	Intersect(ray core.Ray) (HitInfo, bool)
}
