package scene

import (
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// testDescription has one sphere, one triangle and one light
func testDescription() *loaders.RayScene {
	desc := loaders.DefaultRayScene()
	desc.Eye = core.NewVec3(0, 0, 8)
	desc.Width = 16
	desc.Height = 8

	surface := loaders.DefaultRaySurface("s")
	desc.AddSphere(surface, core.NewVec3(0, 0, 0), 1)
	desc.AddPolygon(surface,
		core.NewVec3(-2, -2, -1),
		core.NewVec3(2, -2, -1),
		core.NewVec3(0, 2, -1),
	)
	desc.AddLight(0.7, core.NewVec3(0, 5, 5))
	return desc
}

func TestNewWorld(t *testing.T) {
	world, err := NewWorld(testDescription(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	if world.Width != 16 || world.Height != 8 {
		t.Errorf("Expected 16x8, got %dx%d", world.Width, world.Height)
	}
	if world.MaxDepth != 15 || world.Cutoff != 0.002 || world.Epsilon != 1e-4 {
		t.Errorf("Unexpected limits: depth %d cutoff %g epsilon %g", world.MaxDepth, world.Cutoff, world.Epsilon)
	}
	if world.Objects.Len() != 2 || world.SphereCount != 1 || world.PolygonCount != 1 {
		t.Errorf("Unexpected contents: %s", world.Summary())
	}
	if _, ok := world.Objects.(*geometry.ObjectList); !ok {
		t.Errorf("Expected object list index, got %T", world.Objects)
	}

	sample := world.Lights[0].Sample(core.NewVec3(0, 0, 5))
	if sample.Emission != core.NewVec3(0.7, 0.7, 0.7) {
		t.Errorf("Expected light color (0.7,0.7,0.7), got %v", sample.Emission)
	}

	if world.Camera.W.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected camera w=(0,0,1), got %v", world.Camera.W)
	}
}

func TestNewWorld_Summary(t *testing.T) {
	desc := testDescription()
	desc.AddSphere(loaders.DefaultRaySurface("s"), core.NewVec3(3, 0, 0), 1)

	world, err := NewWorld(desc, DefaultConfig())
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	expected := "3 Objects (2 Spheres, 1 Polygon); 1 Light"
	if got := world.Summary(); got != expected {
		t.Errorf("Summary() = %q, want %q", got, expected)
	}
}

func TestNewWorld_DisabledPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		disable  Features
		spheres  int
		polygons int
	}{
		{"no spheres", FeatureSpheres, 0, 1},
		{"no polygons", FeaturePolygons, 1, 0},
		{"neither", FeatureSpheres | FeaturePolygons, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Features = config.Features.Without(tt.disable)

			world, err := NewWorld(testDescription(), config)
			if err != nil {
				t.Fatalf("NewWorld failed: %v", err)
			}
			if world.SphereCount != tt.spheres || world.PolygonCount != tt.polygons {
				t.Errorf("Expected %d spheres and %d polygons, got %s", tt.spheres, tt.polygons, world.Summary())
			}
			if world.Objects.Len() != tt.spheres+tt.polygons {
				t.Errorf("Expected %d indexed objects, got %d", tt.spheres+tt.polygons, world.Objects.Len())
			}
		})
	}
}

func TestNewWorld_BVH(t *testing.T) {
	config := DefaultConfig()
	config.UseBVH = true

	world, err := NewWorld(testDescription(), config)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	if _, ok := world.Objects.(*geometry.BVH); !ok {
		t.Errorf("Expected BVH index, got %T", world.Objects)
	}
	if world.GetPrimitiveCount() != 2 {
		t.Errorf("Expected 2 primitives, got %d", world.GetPrimitiveCount())
	}
}

func TestNewWorld_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*loaders.RayScene, *Config)
		message string
	}{
		{"eye equals look", func(d *loaders.RayScene, c *Config) { d.Eye = d.LookAt }, "camera"},
		{"up parallel to view", func(d *loaders.RayScene, c *Config) { d.Up = core.NewVec3(0, 0, 1) }, "camera"},
		{"zero resolution", func(d *loaders.RayScene, c *Config) { d.Width = 0 }, "camera"},
		{"negative depth", func(d *loaders.RayScene, c *Config) { d.MaxDepth = -1 }, "maxdepth"},
		{"zero epsilon", func(d *loaders.RayScene, c *Config) { c.Epsilon = 0 }, "epsilon"},
		{"bad index of refraction", func(d *loaders.RayScene, c *Config) {
			d.Primitives[0].Surface.IndexOfRefraction = 0
		}, "index of refraction"},
		{"too few vertices", func(d *loaders.RayScene, c *Config) {
			d.Primitives[1].Vertices = d.Primitives[1].Vertices[:2]
		}, "at least 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := testDescription()
			config := DefaultConfig()
			tt.modify(desc, &config)

			_, err := NewWorld(desc, config)
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected error containing %q, got %v", tt.message, err)
			}
		})
	}

	if _, err := NewWorld(nil, DefaultConfig()); err == nil {
		t.Error("Expected error for nil description")
	}
}
