package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64

	radiusSq float64
	surface  *material.Surface
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, surface *material.Surface) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		radiusSq: radius * radius,
		surface:  surface,
	}
}

// Intersect solves |E + tD - C|² = R² using the ray's cached D·D as the
// leading coefficient and returns the first root inside (Near, Far).
func (s *Sphere) Intersect(ray core.Ray) Intersection {
	a := ray.DirLenSq
	if !(a > 0) || !(s.radiusSq > 0) {
		return NoHit()
	}

	g := ray.Origin.Subtract(s.Center)
	halfB := ray.Direction.Dot(g)
	c := g.Dot(g) - s.radiusSq

	discriminant := halfB*halfB - a*c
	if !(discriminant >= 0) {
		return NoHit()
	}

	sqrtD := math.Sqrt(discriminant)

	// Closer root first
	if t := (-halfB - sqrtD) / a; ray.Contains(t) {
		return Intersection{T: t, Primitive: s}
	}
	if t := (-halfB + sqrtD) / a; ray.Contains(t) {
		return Intersection{T: t, Primitive: s}
	}

	return NoHit()
}

// Normal returns the outward unit normal at point
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

func (s *Sphere) Surface() *material.Surface {
	return s.surface
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := math.Abs(s.Radius)
	extent := core.NewVec3(radius, radius, radius)
	return core.NewAABB(s.Center.Subtract(extent), s.Center.Add(extent))
}

func (s *Sphere) primitive() {}
