package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms.
// An Integrator is owned by a single goroutine.
type Integrator interface {
	// RayColor computes the unclamped color seen along a primary ray
	RayColor(ray core.Ray) core.Vec3
	// Stats returns the counters accumulated so far
	Stats() Stats
}

// Factory builds one integrator per worker over a shared world
type Factory func(world *scene.World) Integrator

// Stats counts the work done by one integrator. Counters from several
// workers are combined with Merge after they finish.
type Stats struct {
	PrimaryRays              int64
	SecondaryRays            int64 // Reflection and refraction rays
	ShadowRays               int64
	ShadeCalls               int64
	TotalInternalReflections int64
	MaxDepthReached          int // Deepest recursion level shaded, 0 for primary hits
}

// Merge adds other's counters into s
func (s *Stats) Merge(other Stats) {
	s.PrimaryRays += other.PrimaryRays
	s.SecondaryRays += other.SecondaryRays
	s.ShadowRays += other.ShadowRays
	s.ShadeCalls += other.ShadeCalls
	s.TotalInternalReflections += other.TotalInternalReflections
	s.MaxDepthReached = max(s.MaxDepthReached, other.MaxDepthReached)
}

// TotalRays returns the number of rays of every kind
func (s Stats) TotalRays() int64 {
	return s.PrimaryRays + s.SecondaryRays + s.ShadowRays
}
