package core

// SampleHemisphere returns a random unit vector on the hemisphere around
// normal: a uniform direction, flipped when it points away from the normal.
func SampleHemisphere(normal Vec3, sampler Sampler) Vec3 {
	dir := sampler.NextUnitVector()
	if dir.Dot(normal) < 0 {
		return dir.Negate()
	}
	return dir
}
