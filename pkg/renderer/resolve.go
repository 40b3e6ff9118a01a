package renderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// DisplayGamma is applied after tone mapping
const DisplayGamma = 2.0

// ToneMap selects the curve applied to the averaged radiance before display
type ToneMap int

const (
	ToneMapNone ToneMap = iota // Clamp only
	ToneMapACES                // Narkowicz ACES filmic fit
)

func (t ToneMap) String() string {
	switch t {
	case ToneMapNone:
		return "none"
	case ToneMapACES:
		return "aces"
	default:
		return "unknown"
	}
}

// ParseToneMap parses a tone map name
func ParseToneMap(name string) (ToneMap, error) {
	switch strings.ToLower(name) {
	case "", "none", "linear":
		return ToneMapNone, nil
	case "aces":
		return ToneMapACES, nil
	default:
		return ToneMapNone, fmt.Errorf("unknown tone map %q", name)
	}
}

// ACES applies the filmic curve per channel
func ACES(c core.Vec3) core.Vec3 {
	f := func(x float64) float64 {
		const a, b, cc, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
		x = max(x, 0)
		return (x * (a*x + b)) / (x*(cc*x+d) + e)
	}
	return core.NewVec3(f(c.X), f(c.Y), f(c.Z)).Clamp(0, 1)
}

// Apply maps linear radiance to [0,1]
func (t ToneMap) Apply(c core.Vec3) core.Vec3 {
	if t == ToneMapACES {
		c = ACES(c)
	}
	return c.Clamp(0, 1)
}

// Resolve converts the accumulator into a displayable image by averaging over
// frames, tone mapping and gamma correcting each pixel
func Resolve(buf *AccumBuffer, frames int, tm ToneMap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(tm.Apply(buf.Average(x, y, frames))))
		}
	}
	return img
}

// vec3ToColor converts a [0,1] color to 8-bit sRGB-ish output
func vec3ToColor(c core.Vec3) color.RGBA {
	if !c.IsFinite() {
		c = core.Vec3{}
	}
	c = c.GammaCorrect(DisplayGamma).Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
