package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Primitive is the capability set shared by every renderable shape.
// The set of implementations is closed: only *Sphere and *Polygon satisfy it.
type Primitive interface {
	// Intersect returns the nearest hit strictly inside the ray's (Near, Far) interval
	Intersect(ray core.Ray) Intersection

	// Normal returns the unit surface normal at a point on the primitive
	Normal(point core.Vec3) core.Vec3

	Surface() *material.Surface
	BoundingBox() core.AABB

	// primitive closes the interface to this package
	primitive()
}

// Index answers ray queries over a fixed collection of primitives.
// Implementations are read-only once built and safe for concurrent use.
type Index interface {
	// Trace returns the nearest intersection along the ray, or NoHit
	Trace(ray core.Ray) Intersection

	// Probe reports whether anything blocks the ray inside (Near, Far)
	Probe(ray core.Ray) bool

	Len() int
}

// Intersection is the result of a ray query: the hit distance and what was hit
type Intersection struct {
	T         float64
	Primitive Primitive // nil when nothing was hit
}

// NoHit returns the empty intersection at infinity
func NoHit() Intersection {
	return Intersection{T: math.Inf(1)}
}

// Hit reports whether the intersection refers to a primitive
func (i Intersection) Hit() bool {
	return i.Primitive != nil
}

// Closer reports whether i is nearer than other
func (i Intersection) Closer(other Intersection) bool {
	return i.T < other.T
}
