package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Config controls how a World is built from a scene description
type Config struct {
	Features Features // Enabled effects and primitive types
	UseBVH   bool     // Index primitives with a BVH instead of a linear list
	Epsilon  float64  // Near limit for primary, secondary and shadow rays
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Features: AllFeatures,
		UseBVH:   false,
		Epsilon:  1e-4,
	}
}

// World contains everything needed to render. It is built once and only
// read while rendering, so it can be shared by every worker.
type World struct {
	Width      int
	Height     int
	Background core.Vec3

	Camera  *geometry.Camera
	Lights  []lights.Light
	Objects geometry.Index // Scene index over all enabled primitives

	MaxDepth int     // Bounce budget of primary rays
	Cutoff   float64 // Minimum influence worth following
	Epsilon  float64
	Features Features

	SphereCount  int
	PolygonCount int
}

// NewWorld builds a World from a parsed scene description
func NewWorld(desc *loaders.RayScene, config Config) (*World, error) {
	if desc == nil {
		return nil, fmt.Errorf("scene description is nil")
	}
	if !(config.Epsilon > 0) {
		return nil, fmt.Errorf("epsilon must be positive, got %g", config.Epsilon)
	}
	if desc.MaxDepth < 0 {
		return nil, fmt.Errorf("maxdepth must be non-negative, got %d", desc.MaxDepth)
	}

	camera, err := geometry.NewCamera(geometry.CameraConfig{
		Eye:    desc.Eye,
		LookAt: desc.LookAt,
		Up:     desc.Up,
		HFov:   desc.HFov,
		VFov:   desc.VFov,
		Width:  desc.Width,
		Height: desc.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create camera: %w", err)
	}

	world := &World{
		Width:      desc.Width,
		Height:     desc.Height,
		Background: desc.Background,
		Camera:     camera,
		Lights:     make([]lights.Light, 0, len(desc.Lights)),
		MaxDepth:   desc.MaxDepth,
		Cutoff:     desc.Cutoff,
		Epsilon:    config.Epsilon,
		Features:   config.Features,
	}

	for _, light := range desc.Lights {
		world.Lights = append(world.Lights, lights.NewWhitePointLight(light.Position, light.Intensity))
	}

	primitives := make([]geometry.Primitive, 0, len(desc.Primitives))
	for i := range desc.Primitives {
		primitive, err := world.convertPrimitive(&desc.Primitives[i])
		if err != nil {
			return nil, err
		}
		if primitive != nil {
			primitives = append(primitives, primitive)
		}
	}

	if config.UseBVH {
		world.Objects = geometry.NewBVH(primitives)
	} else {
		world.Objects = geometry.NewObjectList(primitives)
	}

	return world, nil
}

// convertPrimitive builds one primitive, or returns nil when its type is disabled
func (w *World) convertPrimitive(desc *loaders.RayPrimitive) (geometry.Primitive, error) {
	surface, err := convertSurface(desc.Surface)
	if err != nil {
		return nil, fmt.Errorf("line %d: surface %q: %w", desc.Line, desc.Surface.Name, err)
	}

	switch desc.Kind {
	case loaders.PrimitiveSphere:
		if !w.Features.Has(FeatureSpheres) {
			return nil, nil
		}
		w.SphereCount++
		return geometry.NewSphere(desc.Center, desc.Radius, surface), nil

	case loaders.PrimitivePolygon:
		if !w.Features.Has(FeaturePolygons) {
			return nil, nil
		}
		polygon, err := geometry.NewClosedPolygon(surface, desc.Vertices...)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", desc.Line, err)
		}
		w.PolygonCount++
		return polygon, nil

	default:
		return nil, fmt.Errorf("line %d: unknown primitive kind %q", desc.Line, desc.Kind)
	}
}

// convertSurface copies parsed attributes into a validated material surface
func convertSurface(desc loaders.RaySurface) (*material.Surface, error) {
	surface := &material.Surface{
		Ambient:           desc.Ambient,
		Diffuse:           desc.Diffuse,
		Specular:          desc.Specular,
		SpecularPower:     desc.SpecularPower,
		Reflect:           desc.Reflect,
		Transmit:          desc.Transmit,
		IndexOfRefraction: desc.IndexOfRefraction,
	}
	if err := surface.Validate(); err != nil {
		return nil, err
	}
	return surface, nil
}

// GetPrimitiveCount returns the number of primitives in the scene index
func (w *World) GetPrimitiveCount() int {
	return w.Objects.Len()
}

// Summary describes the scene contents, e.g. "3 Objects (2 Spheres, 1 Polygon); 1 Light"
func (w *World) Summary() string {
	return fmt.Sprintf("%d Objects (%d %s, %d %s); %d %s",
		w.Objects.Len(),
		w.SphereCount, plural(w.SphereCount, "Sphere"),
		w.PolygonCount, plural(w.PolygonCount, "Polygon"),
		len(w.Lights), plural(len(w.Lights), "Light"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
