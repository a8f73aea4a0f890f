package renderer

import (
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red, green, blue and black pixels
	// Expected average: (0.2126 + 0.7152 + 0.0722 + 0.0) / 4 = 0.25
	pixels := []byte{
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		0, 0, 0,
	}

	avgLum := CalculateAverageLuminance(pixels)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	avgLum := CalculateAverageLuminance([]byte{255, 255, 255})
	expected := 1.0
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	if avgLum := CalculateAverageLuminance(nil); avgLum != 0 {
		t.Errorf("Expected 0 for an empty buffer, got %f", avgLum)
	}
}

func TestRenderStats_RaysPerSecond(t *testing.T) {
	stats := RenderStats{
		Elapsed: 2 * time.Second,
		Rays:    integrator.Stats{PrimaryRays: 100, SecondaryRays: 50, ShadowRays: 50},
	}
	if rps := stats.RaysPerSecond(); rps != 100 {
		t.Errorf("Expected 100 rays/s, got %f", rps)
	}

	stats.Elapsed = 0
	if rps := stats.RaysPerSecond(); rps != 0 {
		t.Errorf("Expected 0 rays/s with no elapsed time, got %f", rps)
	}
}
