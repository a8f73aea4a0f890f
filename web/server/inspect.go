package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance,omitempty"`
	Color        [3]float64             `json:"color"` // Unclamped shaded color
	Pixel        [3]byte                `json:"pixel"` // Encoded output bytes
	Rays         integrator.Stats       `json:"rays"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// surfaceProperties lists the shading coefficients of a surface
func surfaceProperties(s *material.Surface) map[string]interface{} {
	r, g, b := renderer.EncodeColor(s.Diffuse)
	return map[string]interface{}{
		"ambient":           vec3Array(s.Ambient),
		"diffuse":           vec3Array(s.Diffuse),
		"specular":          vec3Array(s.Specular),
		"specularPower":     s.SpecularPower,
		"reflect":           s.Reflect,
		"transmit":          s.Transmit,
		"indexOfRefraction": s.IndexOfRefraction,
		"color":             fmt.Sprintf("#%02x%02x%02x", r, g, b),
	}
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// inspectPixel casts the primary ray through pixel (x, y), reports the
// first primitive it hits and shades it exactly as the renderer would
func inspectPixel(world *scene.World, x, y int) InspectResponse {
	ray := world.Camera.GetRay(x, y, world.Epsilon, world.MaxDepth)

	tracer := integrator.NewRecursive(world)
	color := tracer.RayColor(ray)
	r, g, b := renderer.EncodeColor(color)

	response := InspectResponse{
		Color: vec3Array(color),
		Pixel: [3]byte{r, g, b},
		Rays:  tracer.Stats(),
	}

	hit := world.Objects.Trace(ray)
	if !hit.Hit() {
		return response
	}

	point := ray.At(hit.T)
	response.Hit = true
	response.Point = vec3Array(point)
	response.Normal = vec3Array(hit.Primitive.Normal(point))
	response.Distance = hit.T
	response.Properties = surfaceProperties(hit.Primitive.Surface())

	switch p := hit.Primitive.(type) {
	case *geometry.Sphere:
		response.GeometryType = "sphere"
		response.Properties["center"] = vec3Array(p.Center)
		response.Properties["radius"] = p.Radius
	case *geometry.Polygon:
		response.GeometryType = "polygon"
		response.Properties["vertices"] = len(p.Vertices())
	}
	return response
}

// handleInspect reports what the primary ray through one pixel sees
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	world, err := s.buildWorld(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	x, err := parseIntParam(query, "x", -1, 0, world.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(query, "y", -1, 0, world.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if x < 0 || y < 0 {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(world, x, y))
}
