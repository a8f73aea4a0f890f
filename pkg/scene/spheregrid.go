package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH -> OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB -> LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS -> linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a ground quad covered by a gridSize x gridSize
// grid of reflective spheres
func NewSphereGridScene(gridSize int) *loaders.RayScene {
	if gridSize < 2 {
		gridSize = 2
	}

	desc := loaders.DefaultRayScene()
	desc.Eye = core.NewVec3(4.5, 6, 18)       // Position camera farther back and slightly lower
	desc.LookAt = core.NewVec3(4.5, 0.8, 4.5) // Look at center of grid, slightly lower
	desc.Up = core.NewVec3(0, 1, 0)
	desc.Width = 800
	desc.Height = 450 // 16:9 aspect ratio
	desc.VFov = 40
	desc.HFov = horizontalFov(desc.VFov, 16.0/9.0)
	desc.Background = core.NewVec3(0.5, 0.7, 1.0)
	desc.MaxDepth = 8

	ground := newSurface("ground", core.NewVec3(0.5, 0.5, 0.5))
	ground.Ambient = core.NewVec3(0.05, 0.05, 0.05)
	desc.Surfaces = append(desc.Surfaces, ground)
	NewGroundQuad(desc, core.NewVec3(4.5, 0, 4.5), 60, ground)

	// Scale spacing and radius so any grid fits the same 9x9 area
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			surface := newSurface(fmt.Sprintf("grid_%d_%d", i, j), color.Multiply(0.7))
			surface.Ambient = color.Multiply(0.05)
			surface.Specular = core.NewVec3(0.6, 0.6, 0.6)
			surface.SpecularPower = 60
			surface.Reflect = 0.2 + 0.15*float64((i+j)%3) // Vary reflectivity slightly
			desc.Surfaces = append(desc.Surfaces, surface)

			desc.AddSphere(surface, position, sphereRadius)
		}
	}

	desc.AddLight(0.9, core.NewVec3(20, 25, 20))
	desc.AddLight(0.3, core.NewVec3(-10, 15, 10))

	return desc
}
