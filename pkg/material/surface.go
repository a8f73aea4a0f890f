package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Surface collects the appearance parameters shared by every primitive
// that references it. Surfaces are treated as immutable once a primitive
// holds them.
type Surface struct {
	Ambient  core.Vec3 // Ambient color
	Diffuse  core.Vec3 // Diffuse color
	Specular core.Vec3 // Specular color

	SpecularPower     float64 // Phong-Blinn exponent
	Reflect           float64 // Mirror reflection coefficient kr
	Transmit          float64 // Transmission coefficient kt
	IndexOfRefraction float64 // Index of refraction ir, must be > 0
}

// DefaultSurface returns the appearance used before any attribute is set:
// white diffuse, no ambient, no specular, opaque and non-reflective.
func DefaultSurface() Surface {
	return Surface{
		Ambient:           core.NewVec3(0, 0, 0),
		Diffuse:           core.NewVec3(1, 1, 1),
		Specular:          core.NewVec3(0, 0, 0),
		SpecularPower:     0,
		Reflect:           0,
		Transmit:          0,
		IndexOfRefraction: 1,
	}
}

// HasSpecular reports whether the surface has a non-zero specular color
func (s *Surface) HasSpecular() bool {
	return !s.Specular.IsZero()
}

// Validate checks the invariants the integrator relies on.
// kr and kt outside [0,1] are allowed; they only weaken the energy cutoff.
func (s *Surface) Validate() error {
	if !(s.IndexOfRefraction > 0) {
		return fmt.Errorf("index of refraction must be positive, got %g", s.IndexOfRefraction)
	}
	if s.SpecularPower < 0 {
		return fmt.Errorf("specular power must be non-negative, got %g", s.SpecularPower)
	}
	return nil
}
