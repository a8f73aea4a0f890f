package renderer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// LineRenderer renders whole scanlines with one integrator
type LineRenderer struct {
	world      *scene.World
	integrator integrator.Integrator
}

// NewLineRenderer creates a new line renderer with the given world and integrator
func NewLineRenderer(world *scene.World, integratorInst integrator.Integrator) *LineRenderer {
	return &LineRenderer{
		world:      world,
		integrator: integratorInst,
	}
}

// RenderLine shades every pixel of row j and writes it into pixels, the
// full width*height*3 RGB buffer. Only row j's bytes are touched.
func (lr *LineRenderer) RenderLine(j int, pixels []byte) {
	world := lr.world
	camera := world.Camera
	row := pixels[j*world.Width*3 : (j+1)*world.Width*3]

	for i := 0; i < world.Width; i++ {
		ray := camera.GetRay(i, j, world.Epsilon, world.MaxDepth)
		r, g, b := EncodeColor(lr.integrator.RayColor(ray))
		row[i*3] = r
		row[i*3+1] = g
		row[i*3+2] = b
	}
}

// Stats returns the integrator's counters
func (lr *LineRenderer) Stats() integrator.Stats {
	return lr.integrator.Stats()
}

// EncodeColor clamps each channel to [0,1] and rounds it to a byte. NaN
// channels become 0.
func EncodeColor(color core.Vec3) (r, g, b byte) {
	c := color.Clamp(0, 1)
	return encodeChannel(c.X), encodeChannel(c.Y), encodeChannel(c.Z)
}

func encodeChannel(c float64) byte {
	return byte(255*c + 0.5)
}
