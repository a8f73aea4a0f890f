package core

import "math"

// Ray is a parametric ray Origin + t*Direction restricted to the open
// interval (Near, Far). Direction need not be unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	DirLenSq  float64 // Direction·Direction, cached for intersection tests

	Near, Far float64

	Bounces   int     // Remaining reflection/refraction budget
	Influence float64 // Upper bound on this ray's contribution to the pixel
}

// NewRay creates a ray with an unbounded far limit, no bounce budget and
// full influence.
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		DirLenSq:  direction.Dot(direction),
		Near:      0,
		Far:       math.Inf(1),
		Bounces:   0,
		Influence: 1,
	}
}

// NewBoundedRay creates a ray valid over (near, far)
func NewBoundedRay(origin, direction Vec3, near, far float64) Ray {
	r := NewRay(origin, direction)
	r.Near = near
	r.Far = far
	return r
}

// NewPrimaryRay creates a camera ray carrying the full bounce budget
func NewPrimaryRay(origin, direction Vec3, near float64, bounces int) Ray {
	r := NewBoundedRay(origin, direction, near, math.Inf(1))
	r.Bounces = bounces
	return r
}

// Child creates a secondary ray from origin along direction with one bounce
// fewer and influence scaled by weight.
func (r Ray) Child(origin, direction Vec3, near, weight float64) Ray {
	child := NewBoundedRay(origin, direction, near, math.Inf(1))
	child.Bounces = r.Bounces - 1
	child.Influence = r.Influence * weight
	return child
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Contains reports whether t lies strictly inside (Near, Far)
func (r Ray) Contains(t float64) bool {
	return t > r.Near && t < r.Far
}
