package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// MockPrimitive lets tests count intersection calls
type MockPrimitive struct {
	box       core.AABB
	intersect func(ray core.Ray) (float64, bool)
	calls     *int
}

func (m *MockPrimitive) Intersect(ray core.Ray) Intersection {
	if m.calls != nil {
		*m.calls++
	}
	if t, ok := m.intersect(ray); ok {
		return Intersection{T: t, Primitive: m}
	}
	return NoHit()
}
func (m *MockPrimitive) Normal(core.Vec3) core.Vec3 { return core.NewVec3(0, 0, 1) }
func (m *MockPrimitive) Surface() *material.Surface { return nil }
func (m *MockPrimitive) BoundingBox() core.AABB     { return m.box }
func (m *MockPrimitive) primitive()                 {}

// fixedHit returns a mock that reports a hit at t whenever t is inside the ray interval
func fixedHit(t float64, calls *int) *MockPrimitive {
	return &MockPrimitive{
		box:   core.NewAABB(core.NewVec3(-1e9, -1e9, -1e9), core.NewVec3(1e9, 1e9, 1e9)),
		calls: calls,
		intersect: func(ray core.Ray) (float64, bool) {
			return t, ray.Contains(t)
		},
	}
}

func TestObjectList_TraceNearest(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, 0), 1, testSurface())
	far := NewSphere(core.NewVec3(0, 0, -10), 1, testSurface())

	// Insertion order must not matter
	for _, order := range [][]Primitive{{near, far}, {far, near}} {
		list := NewObjectList(order)
		hit := list.Trace(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)))

		if hit.Primitive != near {
			t.Errorf("Expected nearest sphere, got %v", hit.Primitive)
		}
		if math.Abs(hit.T-4) > 1e-9 {
			t.Errorf("Expected t=4, got %f", hit.T)
		}
	}
}

func TestObjectList_Empty(t *testing.T) {
	list := NewObjectList(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	hit := list.Trace(ray)
	if hit.Hit() || !math.IsInf(hit.T, 1) {
		t.Errorf("Expected no-hit at infinity, got %+v", hit)
	}
	if list.Probe(ray) {
		t.Error("Expected empty list probe to find nothing")
	}
	if list.Len() != 0 {
		t.Errorf("Expected length 0, got %d", list.Len())
	}
}

func TestObjectList_TieKeepsFirst(t *testing.T) {
	a := fixedHit(2, nil)
	b := fixedHit(2, nil)
	list := NewObjectList([]Primitive{a, b})

	hit := list.Trace(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)))
	if hit.Primitive != a {
		t.Error("Expected tie to keep the earlier primitive")
	}
}

func TestObjectList_ProbeShortCircuits(t *testing.T) {
	calls := 0
	list := NewObjectList([]Primitive{
		fixedHit(1, &calls),
		fixedHit(2, &calls),
		fixedHit(3, &calls),
	})

	ray := core.NewBoundedRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), 1e-4, 10)
	if !list.Probe(ray) {
		t.Fatal("Expected occluder to be found")
	}
	if calls != 1 {
		t.Errorf("Expected probe to stop after first hit, got %d calls", calls)
	}

	// Occluders at or beyond the light don't count
	calls = 0
	ray.Far = 1
	if list.Probe(ray) {
		t.Error("Expected no occluder before far limit")
	}
	if calls != 3 {
		t.Errorf("Expected every primitive tested, got %d calls", calls)
	}
}
