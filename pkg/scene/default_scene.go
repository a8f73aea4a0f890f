package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// horizontalFov returns the horizontal field of view that matches vfov at
// the given aspect ratio (width / height)
func horizontalFov(vfov, aspect float64) float64 {
	half := math.Tan(vfov * math.Pi / 360)
	return math.Atan(half*aspect) * 360 / math.Pi
}

// newSurface returns a named default surface with the given diffuse color
func newSurface(name string, diffuse core.Vec3) loaders.RaySurface {
	s := loaders.DefaultRaySurface(name)
	s.Diffuse = diffuse
	return s
}

// NewGroundQuad creates a large horizontal square polygon centered at center,
// wound so its face normal points up (0,1,0)
func NewGroundQuad(desc *loaders.RayScene, center core.Vec3, size float64, surface loaders.RaySurface) {
	h := size / 2
	desc.AddPolygon(surface,
		core.NewVec3(center.X-h, center.Y, center.Z-h),
		core.NewVec3(center.X-h, center.Y, center.Z+h),
		core.NewVec3(center.X+h, center.Y, center.Z+h),
		core.NewVec3(center.X+h, center.Y, center.Z-h),
	)
}

// NewDefaultScene creates a default scene with a mirror, a glass sphere and
// a few diffuse spheres on a ground quad
func NewDefaultScene() *loaders.RayScene {
	desc := loaders.DefaultRayScene()
	desc.Eye = core.NewVec3(0, 0.75, 2)    // Position camera higher and farther back
	desc.LookAt = core.NewVec3(0, 0.5, -1) // Look at the sphere center
	desc.Up = core.NewVec3(0, 1, 0)
	desc.Width = 400
	desc.Height = 225 // 16:9 aspect ratio
	desc.VFov = 40
	desc.HFov = horizontalFov(desc.VFov, 16.0/9.0)
	desc.Background = core.NewVec3(0.5, 0.7, 1.0) // Blue sky
	desc.MaxDepth = 10

	ground := newSurface("ground", core.NewVec3(0.48, 0.48, 0.0))
	ground.Ambient = core.NewVec3(0.05, 0.05, 0.05)

	red := newSurface("red", core.NewVec3(0.65, 0.25, 0.2))
	red.Ambient = core.NewVec3(0.05, 0.02, 0.02)
	red.Specular = core.NewVec3(0.5, 0.5, 0.5)
	red.SpecularPower = 40

	silver := newSurface("silver", core.NewVec3(0.1, 0.1, 0.1))
	silver.Specular = core.NewVec3(0.8, 0.8, 0.8)
	silver.SpecularPower = 200
	silver.Reflect = 0.8

	glass := newSurface("glass", core.NewVec3(0, 0, 0))
	glass.Specular = core.NewVec3(1, 1, 1)
	glass.SpecularPower = 300
	glass.Reflect = 0.1
	glass.Transmit = 0.9
	glass.IndexOfRefraction = 1.5

	blue := newSurface("blue", core.NewVec3(0.1, 0.2, 0.5))
	blue.Ambient = core.NewVec3(0.02, 0.02, 0.05)

	desc.Surfaces = append(desc.Surfaces, ground, red, silver, glass, blue)

	// Ground quad instead of an infinite plane
	NewGroundQuad(desc, core.NewVec3(0, 0, 0), 100.0, ground)

	desc.AddSphere(red, core.NewVec3(0, 0.5, -1), 0.5)
	desc.AddSphere(silver, core.NewVec3(-1, 0.5, -1), 0.5)
	desc.AddSphere(blue, core.NewVec3(1, 0.5, -1), 0.5)
	desc.AddSphere(glass, core.NewVec3(0.5, 0.25, -0.5), 0.25)

	desc.AddLight(0.8, core.NewVec3(30, 30.5, 15))
	desc.AddLight(0.3, core.NewVec3(-10, 10, 10))

	return desc
}
