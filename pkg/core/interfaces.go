package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler provides the random draws consumed by the path integrator.
// Can be swapped out for deterministic testing.
type Sampler interface {
	NextFloat() float64
	NextUnitVector() Vec3
}
