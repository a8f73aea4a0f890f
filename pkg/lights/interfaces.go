package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light interface for lights that can illuminate a shading point directly
type Light interface {
	Type() LightType

	// Sample returns the direction and distance FROM point TO the light
	// together with the light's color.
	Sample(point core.Vec3) LightSample
}

// LightSample contains information about a light as seen from a shading point
type LightSample struct {
	Point     core.Vec3 // Position of the light
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
	Emission  core.Vec3 // Light color
}
