package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// ObjectList is the linear-scan scene index
type ObjectList struct {
	primitives []Primitive
}

// NewObjectList creates an object list over a copy of primitives
func NewObjectList(primitives []Primitive) *ObjectList {
	list := make([]Primitive, len(primitives))
	copy(list, primitives)
	return &ObjectList{primitives: list}
}

// Trace returns the intersection with the smallest t. Ties keep the
// earlier primitive.
func (ol *ObjectList) Trace(ray core.Ray) Intersection {
	return traceLinear(ol.primitives, ray)
}

// Probe reports whether any primitive is hit before ray.Far, stopping at the first
func (ol *ObjectList) Probe(ray core.Ray) bool {
	return probeLinear(ol.primitives, ray)
}

// Len returns the number of primitives
func (ol *ObjectList) Len() int {
	return len(ol.primitives)
}

// Primitives returns the indexed primitives in insertion order
func (ol *ObjectList) Primitives() []Primitive {
	return ol.primitives
}

func traceLinear(primitives []Primitive, ray core.Ray) Intersection {
	closest := NoHit()
	for _, p := range primitives {
		if current := p.Intersect(ray); current.Hit() && current.Closer(closest) {
			closest = current
		}
	}
	return closest
}

func probeLinear(primitives []Primitive, ray core.Ray) bool {
	for _, p := range primitives {
		if hit := p.Intersect(ray); hit.Hit() && hit.T < ray.Far {
			return true
		}
	}
	return false
}
