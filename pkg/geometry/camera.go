package geometry

import (
	"errors"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera by eye, look-at point and fields of view
type CameraConfig struct {
	Eye    core.Vec3
	LookAt core.Vec3
	Up     core.Vec3
	HFov   float64 // Horizontal field of view in degrees
	VFov   float64 // Vertical field of view in degrees
	Width  int     // Image width in pixels
	Height int     // Image height in pixels
}

// Camera holds the view basis and the screen-plane extents at the look-at distance
type Camera struct {
	Eye     core.Vec3
	U, V, W core.Vec3 // Right, up and backward basis vectors
	Dist    float64   // Distance from eye to the screen plane

	Left, Right, Bottom, Top float64

	Width, Height int
}

// NewCamera derives the camera basis from config
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, errors.New("camera resolution must be positive")
	}
	if !(config.HFov > 0 && config.HFov < 180) || !(config.VFov > 0 && config.VFov < 180) {
		return nil, errors.New("field of view must be in (0, 180) degrees")
	}

	w := config.Eye.Subtract(config.LookAt)
	dist := w.Length()
	if dist == 0 {
		return nil, errors.New("eye and look-at point coincide")
	}
	w = w.Multiply(1 / dist)

	u := config.Up.Cross(w)
	if u.Length() < 1e-12 {
		return nil, errors.New("up vector is parallel to the view direction")
	}
	u = u.Normalize()
	v := w.Cross(u)

	right := dist * math.Tan(config.HFov*math.Pi/360)
	top := dist * math.Tan(config.VFov*math.Pi/360)

	return &Camera{
		Eye:    config.Eye,
		U:      u,
		V:      v,
		W:      w,
		Dist:   dist,
		Left:   -right,
		Right:  right,
		Bottom: -top,
		Top:    top,
		Width:  config.Width,
		Height: config.Height,
	}, nil
}

// Direction returns the (unnormalized) direction from the eye through the
// center of pixel (i, j); row 0 is the top of the image.
func (c *Camera) Direction(i, j int) core.Vec3 {
	us := c.Left + (c.Right-c.Left)*(float64(i)+0.5)/float64(c.Width)
	vs := c.Top + (c.Bottom-c.Top)*(float64(j)+0.5)/float64(c.Height)

	return c.W.Multiply(-c.Dist).
		Add(c.U.Multiply(us)).
		Add(c.V.Multiply(vs))
}

// GetRay creates the primary ray for pixel (i, j)
func (c *Camera) GetRay(i, j int, near float64, maxDepth int) core.Ray {
	return core.NewPrimaryRay(c.Eye, c.Direction(i, j), near, maxDepth)
}
