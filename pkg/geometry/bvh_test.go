package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestBVH_LeafThresholdBoundary(t *testing.T) {
	// Exactly leafThreshold primitives should create a single leaf
	primitives := make([]Primitive, 0, leafThreshold+1)
	for i := 0; i < leafThreshold; i++ {
		primitives = append(primitives, NewSphere(core.NewVec3(float64(i)*3, 0, 0), 1, testSurface()))
	}

	stats := NewBVH(primitives).getStats()
	if stats.totalNodes != 1 || stats.leafNodes != 1 {
		t.Errorf("Expected a single leaf for %d primitives, got %+v", len(primitives), stats)
	}

	primitives = append(primitives, NewSphere(core.NewVec3(float64(leafThreshold)*3, 0, 0), 1, testSurface()))
	stats = NewBVH(primitives).getStats()
	if stats.totalNodes == 1 {
		t.Errorf("Expected split for %d primitives, but got single node", len(primitives))
	}
	if stats.totalPrimitives != len(primitives) {
		t.Errorf("Expected %d primitives in leaves, got %d", len(primitives), stats.totalPrimitives)
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	if bvh.Trace(ray).Hit() {
		t.Error("Expected no hit for empty BVH")
	}
	if bvh.Probe(ray) {
		t.Error("Expected empty BVH probe to find nothing")
	}
	if bvh.Len() != 0 {
		t.Errorf("Expected length 0, got %d", bvh.Len())
	}
}

func TestBVH_MatchesObjectList(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	var primitives []Primitive
	for i := 0; i < 60; i++ {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		primitives = append(primitives, NewSphere(center, 0.3+random.Float64(), testSurface()))
	}
	for i := 0; i < 20; i++ {
		base := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		p, err := NewClosedPolygon(testSurface(),
			base,
			base.Add(core.NewVec3(1+random.Float64(), 0, 0)),
			base.Add(core.NewVec3(0, 1+random.Float64(), random.Float64())),
		)
		if err != nil {
			t.Fatalf("Failed to build polygon: %v", err)
		}
		primitives = append(primitives, p)
	}

	list := NewObjectList(primitives)
	bvh := NewBVH(primitives)

	if bvh.Len() != list.Len() {
		t.Fatalf("Expected %d primitives, got %d", list.Len(), bvh.Len())
	}

	for i := 0; i < 500; i++ {
		origin := core.NewVec3(random.Float64()*40-20, random.Float64()*40-20, 25)
		target := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		ray := core.NewBoundedRay(origin, target.Subtract(origin), 1e-4, math.Inf(1))

		expected := list.Trace(ray)
		got := bvh.Trace(ray)

		if expected.Primitive != got.Primitive || expected.T != got.T {
			t.Fatalf("Ray %d: object list hit %t at %f, BVH hit %t at %f",
				i, expected.Hit(), expected.T, got.Hit(), got.T)
		}

		shadow := ray
		shadow.Far = 0.5
		if list.Probe(shadow) != bvh.Probe(shadow) {
			t.Fatalf("Ray %d: probe disagreement", i)
		}
	}
}

// coplanarSquare is an axis-aligned square in the z=0 plane
func coplanarSquare(t *testing.T, minX, maxX float64) *Polygon {
	t.Helper()
	p, err := NewClosedPolygon(testSurface(),
		core.NewVec3(minX, -1, 0),
		core.NewVec3(maxX, -1, 0),
		core.NewVec3(maxX, 1, 0),
		core.NewVec3(minX, 1, 0),
	)
	if err != nil {
		t.Fatalf("Failed to build polygon: %v", err)
	}
	return p
}

func TestBVH_TiesKeepSceneOrder(t *testing.T) {
	// Two overlapping squares hit at the same t. The one whose center sorts
	// first along x is listed second, so a split or leaf sort puts it ahead.
	right := coplanarSquare(t, -1, 9)
	left := coplanarSquare(t, -9, 1)

	tests := []struct {
		name  string
		first Primitive
		later Primitive
	}{
		{"right square first", right, left},
		{"left square first", left, right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primitives := []Primitive{tt.first, tt.later}
			// Spheres off the ray's path force the hierarchy to split along x
			for i := 0; i < 10; i++ {
				x := float64(i)*4 - 18
				primitives = append(primitives, NewSphere(core.NewVec3(x, 10, 0), 0.5, testSurface()))
			}

			ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
			expected := NewObjectList(primitives).Trace(ray)
			got := NewBVH(primitives).Trace(ray)

			if expected.Primitive != tt.first {
				t.Fatalf("Expected object list to keep the first square, got %v", expected.Primitive)
			}
			if got.Primitive != expected.Primitive || got.T != expected.T {
				t.Errorf("BVH hit %v at %f, object list hit %v at %f",
					got.Primitive, got.T, expected.Primitive, expected.T)
			}
		})
	}
}
