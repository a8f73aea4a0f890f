package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// NewCornellScene creates a classic Cornell box with polygon walls, a point
// light under the ceiling, a mirror sphere and a glass sphere
func NewCornellScene() *loaders.RayScene {
	desc := loaders.DefaultRayScene()
	desc.Eye = core.NewVec3(278, 278, -800) // Position camera outside the box looking in
	desc.LookAt = core.NewVec3(278, 278, 0) // Look at the center of the box
	desc.Up = core.NewVec3(0, 1, 0)
	desc.Width = 400
	desc.Height = 400 // Square aspect ratio for Cornell box
	desc.HFov = 40
	desc.VFov = 40
	desc.Background = core.NewVec3(0, 0, 0)
	desc.MaxDepth = 12

	ambient := core.NewVec3(0.05, 0.05, 0.05)
	white := newSurface("white", core.NewVec3(0.73, 0.73, 0.73))
	white.Ambient = ambient
	red := newSurface("red", core.NewVec3(0.65, 0.05, 0.05))
	red.Ambient = ambient
	green := newSurface("green", core.NewVec3(0.12, 0.45, 0.15))
	green.Ambient = ambient

	mirror := newSurface("mirror", core.NewVec3(0.05, 0.05, 0.05))
	mirror.Specular = core.NewVec3(0.9, 0.9, 0.9)
	mirror.SpecularPower = 150
	mirror.Reflect = 0.85

	glass := newSurface("glass", core.NewVec3(0, 0, 0))
	glass.Specular = core.NewVec3(1, 1, 1)
	glass.SpecularPower = 300
	glass.Reflect = 0.05
	glass.Transmit = 0.95
	glass.IndexOfRefraction = 1.5

	desc.Surfaces = append(desc.Surfaces, white, red, green, mirror, glass)

	// Cornell box dimensions (standard 555x555x555 units). Lighting uses the
	// face normal as given, so every wall is wound to face into the box.
	s := 555.0

	// Floor, normal +y
	desc.AddPolygon(white,
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, s), core.NewVec3(s, 0, s), core.NewVec3(s, 0, 0))
	// Ceiling, normal -y
	desc.AddPolygon(white,
		core.NewVec3(0, s, 0), core.NewVec3(s, s, 0), core.NewVec3(s, s, s), core.NewVec3(0, s, s))
	// Back wall, normal -z
	desc.AddPolygon(white,
		core.NewVec3(0, 0, s), core.NewVec3(0, s, s), core.NewVec3(s, s, s), core.NewVec3(s, 0, s))
	// Left wall, normal +x
	desc.AddPolygon(red,
		core.NewVec3(0, 0, 0), core.NewVec3(0, s, 0), core.NewVec3(0, s, s), core.NewVec3(0, 0, s))
	// Right wall, normal -x
	desc.AddPolygon(green,
		core.NewVec3(s, 0, 0), core.NewVec3(s, 0, s), core.NewVec3(s, s, s), core.NewVec3(s, s, 0))

	desc.AddSphere(mirror, core.NewVec3(185, 82.5, 169), 82.5)
	desc.AddSphere(glass, core.NewVec3(370, 90, 351), 90)

	desc.AddLight(0.9, core.NewVec3(278, 540, 278))
	desc.AddLight(0.2, core.NewVec3(278, 278, -400))

	return desc
}
