package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// PointLight is a fixed light at a world-space position
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{Position: position, Color: color}
}

// NewWhitePointLight creates a grey point light with equal intensity in every channel
func NewWhitePointLight(position core.Vec3, intensity float64) *PointLight {
	return NewPointLight(position, core.NewVec3(intensity, intensity, intensity))
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Sample implements the Light interface
func (pl *PointLight) Sample(point core.Vec3) LightSample {
	toLight := pl.Position.Subtract(point)
	distance := toLight.Length()

	if distance == 0 {
		// Shading point sits on the light; nothing to illuminate
		return LightSample{
			Point:     pl.Position,
			Direction: core.NewVec3(0, 0, 0),
			Distance:  0,
			Emission:  core.NewVec3(0, 0, 0),
		}
	}

	return LightSample{
		Point:     pl.Position,
		Direction: toLight.Multiply(1 / distance),
		Distance:  distance,
		Emission:  pl.Color,
	}
}
