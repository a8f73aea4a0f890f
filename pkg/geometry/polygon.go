package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	ErrPolygonClosed       = errors.New("polygon already closed")
	ErrTooFewPolygonPoints = errors.New("polygon needs at least 3 vertices")
)

// polyVertex is a vertex plus its coordinates in the polygon's plane basis
type polyVertex struct {
	V      core.Vec3
	vt, vb float64 // V·tangent, V·bitangent
}

// Polygon is a flat, possibly concave, non-self-intersecting polygon.
// Vertices are added in loop order and Close derives the plane basis;
// the polygon must not be modified after that.
type Polygon struct {
	vertices []polyVertex

	normal    core.Vec3 // Face normal
	tangent   core.Vec3 // First in-plane basis vector
	bitangent core.Vec3 // Second in-plane basis vector, normal × tangent
	v0DotN    float64
	bbox      core.AABB

	closed  bool
	surface *material.Surface
}

// NewPolygon creates an empty polygon
func NewPolygon(surface *material.Surface) *Polygon {
	return &Polygon{surface: surface}
}

// NewClosedPolygon creates a polygon from a complete vertex loop
func NewClosedPolygon(surface *material.Surface, vertices ...core.Vec3) (*Polygon, error) {
	p := NewPolygon(surface)
	for _, v := range vertices {
		if err := p.AddVertex(v); err != nil {
			return nil, err
		}
	}
	if err := p.Close(); err != nil {
		return nil, err
	}
	return p, nil
}

// AddVertex appends the next vertex of the loop
func (p *Polygon) AddVertex(v core.Vec3) error {
	if p.closed {
		return ErrPolygonClosed
	}
	p.vertices = append(p.vertices, polyVertex{V: v})
	return nil
}

// Close finishes the polygon and precomputes everything Intersect needs
func (p *Polygon) Close() error {
	if p.closed {
		return ErrPolygonClosed
	}
	if len(p.vertices) < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewPolygonPoints, len(p.vertices))
	}

	v0 := p.vertices[0].V
	v1 := p.vertices[1].V
	v2 := p.vertices[2].V
	vn := p.vertices[len(p.vertices)-1].V

	p.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()

	// Tangent runs along the closing edge (last -> first), so that edge has a
	// constant bitangent coordinate and never needs testing
	p.tangent = v0.Subtract(vn).Normalize()
	p.bitangent = p.normal.Cross(p.tangent)

	p.v0DotN = v0.Dot(p.normal)

	points := make([]core.Vec3, len(p.vertices))
	for i := range p.vertices {
		vert := &p.vertices[i]
		vert.vt = vert.V.Dot(p.tangent)
		vert.vb = vert.V.Dot(p.bitangent)
		points[i] = vert.V
	}
	p.bbox = core.NewAABBFromPoints(points...)

	p.closed = true
	return nil
}

// Intersect finds the ray/plane hit and keeps it if it falls inside the
// vertex loop by even/odd crossing parity along the tangent axis.
func (p *Polygon) Intersect(ray core.Ray) Intersection {
	if !p.closed {
		return NoHit()
	}

	t := (p.v0DotN - p.normal.Dot(ray.Origin)) / p.normal.Dot(ray.Direction)
	if !core.IsFinite(t) || !ray.Contains(t) {
		return NoHit()
	}

	if p.contains(ray.At(t)) {
		return Intersection{T: t, Primitive: p}
	}
	return NoHit()
}

// contains runs the 2D point-in-polygon test for a point already known to
// lie in the polygon's plane. Points exactly on a vertex may go either way.
func (p *Polygon) contains(point core.Vec3) bool {
	pt := point.Dot(p.tangent)
	pb := point.Dot(p.bitangent)

	inside := false
	for i := 1; i < len(p.vertices); i++ {
		v0 := &p.vertices[i-1]
		v1 := &p.vertices[i]

		// Does the edge straddle the test line b == pb? Half-open at v0.
		b0 := v1.vb - pb
		b1 := pb - v0.vb
		if (b0 > 0) != (b1 < 0) {
			// Tangent coordinate where the edge crosses the test line
			qt := (b0*v0.vt + b1*v1.vt) / (v1.vb - v0.vb)
			if qt > pt {
				inside = !inside
			}
		}
	}
	return inside
}

// Normal returns the face normal (flat shading)
func (p *Polygon) Normal(core.Vec3) core.Vec3 {
	return p.normal
}

func (p *Polygon) Surface() *material.Surface {
	return p.surface
}

// BoundingBox returns the box around all vertices
func (p *Polygon) BoundingBox() core.AABB {
	return p.bbox
}

// Vertices returns a copy of the vertex loop
func (p *Polygon) Vertices() []core.Vec3 {
	out := make([]core.Vec3, len(p.vertices))
	for i, v := range p.vertices {
		out[i] = v.V
	}
	return out
}

// IsClosed reports whether Close has been called successfully
func (p *Polygon) IsClosed() bool {
	return p.closed
}

func (p *Polygon) primitive() {}
