package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Primitives  []Primitive // Leaf contents (nil for internal nodes)
}

// BVH is a coarse bounding volume hierarchy over the scene's primitives.
// It answers the same queries as ObjectList, including the tie rule: of two
// hits at the same t, the primitive given earlier to NewBVH wins.
type BVH struct {
	Root  *BVHNode
	count int
	order map[Primitive]int // Position in the slice given to NewBVH
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of primitives
func NewBVH(primitives []Primitive) *BVH {
	if len(primitives) == 0 {
		return &BVH{}
	}

	// Copy so sorting doesn't reorder the caller's slice
	list := make([]Primitive, len(primitives))
	copy(list, primitives)

	order := make(map[Primitive]int, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		order[list[i]] = i
	}

	return &BVH{
		Root:  buildBVH(list),
		count: len(list),
		order: order,
	}
}

// buildBVH recursively builds the BVH with a median split along the longest axis
func buildBVH(primitives []Primitive) *BVHNode {
	boundingBox := primitives[0].BoundingBox()
	for _, p := range primitives[1:] {
		boundingBox = boundingBox.Union(p.BoundingBox())
	}

	if len(primitives) <= leafThreshold {
		return &BVHNode{
			BoundingBox: boundingBox,
			Primitives:  primitives,
		}
	}

	axis := boundingBox.LongestAxis()
	sortPrimitivesByAxis(primitives, axis)

	mid := len(primitives) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(primitives[:mid]),
		Right:       buildBVH(primitives[mid:]),
	}
}

// sortPrimitivesByAxis orders primitives by bounding box center. Stable so
// that equal centers keep scene order and builds are reproducible.
func sortPrimitivesByAxis(primitives []Primitive, axis int) {
	sort.SliceStable(primitives, func(i, j int) bool {
		ci := core.Axis(primitives[i].BoundingBox().Center(), axis)
		cj := core.Axis(primitives[j].BoundingBox().Center(), axis)
		return ci < cj
	})
}

// Trace returns the nearest intersection in the hierarchy
func (bvh *BVH) Trace(ray core.Ray) Intersection {
	if bvh.Root == nil {
		return NoHit()
	}
	return bvh.traceNode(bvh.Root, ray)
}

func (bvh *BVH) traceNode(node *BVHNode, ray core.Ray) Intersection {
	if !node.BoundingBox.Hit(ray) {
		return NoHit()
	}

	closest := NoHit()
	if node.Primitives != nil {
		// Leaves are sorted by center, so scan order is not scene order
		for _, p := range node.Primitives {
			if current := p.Intersect(ray); current.Hit() && bvh.nearer(current, closest) {
				closest = current
			}
		}
		return closest
	}

	if node.Left != nil {
		closest = bvh.traceNode(node.Left, ray)
	}
	if node.Right != nil {
		// Shrink the interval so the right subtree can skip boxes beyond the
		// left hit, keeping hits at exactly closest.T for the tie rule
		narrowed := ray
		if closest.Hit() {
			narrowed.Far = math.Nextafter(closest.T, math.Inf(1))
		}
		if hit := bvh.traceNode(node.Right, narrowed); hit.Hit() && bvh.nearer(hit, closest) {
			closest = hit
		}
	}
	return closest
}

// nearer orders hits by t, then by scene position
func (bvh *BVH) nearer(hit, closest Intersection) bool {
	if !closest.Hit() || hit.T != closest.T {
		return hit.Closer(closest)
	}
	return bvh.order[hit.Primitive] < bvh.order[closest.Primitive]
}

// Probe reports whether anything in the hierarchy blocks the ray
func (bvh *BVH) Probe(ray core.Ray) bool {
	if bvh.Root == nil {
		return false
	}
	return bvh.probeNode(bvh.Root, ray)
}

func (bvh *BVH) probeNode(node *BVHNode, ray core.Ray) bool {
	if !node.BoundingBox.Hit(ray) {
		return false
	}
	if node.Primitives != nil {
		return probeLinear(node.Primitives, ray)
	}
	return (node.Left != nil && bvh.probeNode(node.Left, ray)) ||
		(node.Right != nil && bvh.probeNode(node.Right, ray))
}

// Len returns the number of primitives in the hierarchy
func (bvh *BVH) Len() int {
	return bvh.count
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes      int
	leafNodes       int
	maxDepth        int
	totalPrimitives int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if bvh.Root != nil {
		bvh.collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++
	stats.maxDepth = max(stats.maxDepth, depth)

	if node.Primitives != nil {
		stats.leafNodes++
		stats.totalPrimitives += len(node.Primitives)
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
