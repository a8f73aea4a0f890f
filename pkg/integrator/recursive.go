package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Recursive implements Whitted-style ray tracing: local Blinn-Phong
// illumination with shadow probes plus recursive mirror reflection and
// refraction, bounded by the ray's bounce budget and influence.
type Recursive struct {
	world *scene.World
	stats Stats
}

// NewRecursive creates a recursive integrator over world
func NewRecursive(world *scene.World) *Recursive {
	return &Recursive{world: world}
}

// NewRecursiveIntegrator is a Factory for Recursive integrators
func NewRecursiveIntegrator(world *scene.World) Integrator {
	return NewRecursive(world)
}

// Stats returns the counters accumulated so far
func (r *Recursive) Stats() Stats {
	return r.stats
}

// RayColor traces a primary ray and shades what it hits
func (r *Recursive) RayColor(ray core.Ray) core.Vec3 {
	r.stats.PrimaryRays++
	return r.Shade(ray, r.world.Objects.Trace(ray))
}

// traceSecondary follows a reflected or refracted ray
func (r *Recursive) traceSecondary(ray core.Ray) core.Vec3 {
	r.stats.SecondaryRays++
	return r.Shade(ray, r.world.Objects.Trace(ray))
}

// Shade returns the color for ray given its nearest intersection. The result
// is not clamped.
func (r *Recursive) Shade(ray core.Ray, hit geometry.Intersection) core.Vec3 {
	world := r.world
	if !hit.Hit() {
		return world.Background
	}

	r.stats.ShadeCalls++
	r.stats.MaxDepthReached = max(r.stats.MaxDepthReached, world.MaxDepth-ray.Bounces)

	surface := hit.Primitive.Surface()
	point := ray.At(hit.T)
	normal := hit.Primitive.Normal(point)
	view := ray.Direction.Normalize().Negate()

	color := core.Vec3{}
	if world.Features.Has(scene.FeatureAmbient) {
		color = color.Add(surface.Ambient)
	}

	color = color.Add(r.directLighting(point, normal, view, surface))

	canRecurse := ray.Bounces > 0
	if canRecurse && world.Features.Has(scene.FeatureReflect) && ray.Influence*surface.Reflect > world.Cutoff {
		color = color.Add(r.reflect(ray, point, normal, surface.Reflect))
	}
	if canRecurse && world.Features.Has(scene.FeatureRefract) && ray.Influence*surface.Transmit > world.Cutoff {
		color = color.Add(r.refract(ray, point, normal, view, surface.Transmit, surface.IndexOfRefraction))
	}

	return color
}

// directLighting sums the diffuse and specular contribution of every light
// that is on the visible side of the surface and not blocked
func (r *Recursive) directLighting(point, normal, view core.Vec3, surface *material.Surface) core.Vec3 {
	world := r.world
	diffuse := world.Features.Has(scene.FeatureDiffuse)
	specular := world.Features.Has(scene.FeatureSpecular) && surface.HasSpecular()
	if !diffuse && !specular {
		return core.Vec3{}
	}

	color := core.Vec3{}
	for _, light := range world.Lights {
		sample := light.Sample(point)
		if sample.Distance == 0 {
			continue
		}

		cosine := normal.Dot(sample.Direction)
		if cosine <= 0 {
			continue
		}
		if world.Features.Has(scene.FeatureShadow) && r.occluded(point, sample.Direction, sample.Distance) {
			continue
		}

		if diffuse {
			color = color.Add(sample.Emission.MultiplyVec(surface.Diffuse).Multiply(cosine))
		}
		if specular {
			half := view.Add(sample.Direction).Normalize()
			if nh := normal.Dot(half); nh > 0 {
				highlight := math.Pow(nh, surface.SpecularPower)
				color = color.Add(sample.Emission.MultiplyVec(surface.Specular).Multiply(highlight))
			}
		}
	}
	return color
}

// occluded probes from point along the unit direction toward a light at distance
func (r *Recursive) occluded(point, direction core.Vec3, distance float64) bool {
	r.stats.ShadowRays++
	shadow := core.NewBoundedRay(point, direction, r.world.Epsilon, distance)
	return r.world.Objects.Probe(shadow)
}

// reflect follows the mirror direction D - 2(N·D)N
func (r *Recursive) reflect(ray core.Ray, point, normal core.Vec3, kr float64) core.Vec3 {
	d := ray.Direction
	direction := d.Subtract(normal.Multiply(2 * normal.Dot(d)))
	child := ray.Child(point, direction, r.world.Epsilon, kr)
	return r.traceSecondary(child).Multiply(kr)
}

// refract follows the transmitted direction from Snell's law. The side of
// the surface the ray arrives from selects between entering and leaving.
func (r *Recursive) refract(ray core.Ray, point, normal, view core.Vec3, kt, ir float64) core.Vec3 {
	ci := normal.Dot(view)
	eta := ir
	sign := -1.0
	if ci > 0 {
		eta = 1 / ir
		sign = 1
	}

	ct2 := 1 - (1-ci*ci)*eta*eta
	if ct2 <= 0 {
		r.stats.TotalInternalReflections++
		return core.Vec3{}
	}

	direction := view.Multiply(-eta).Add(normal.Multiply(eta*ci - sign*math.Sqrt(ct2)))
	child := ray.Child(point, direction, r.world.Epsilon, kt)
	return r.traceSecondary(child).Multiply(kt)
}
