package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int              // Total number of pixels rendered
	Lines       int              // Number of scanlines rendered
	Workers     int              // Goroutines used, 1 for a serial render
	Elapsed     time.Duration    // Wall-clock render time
	Rays        integrator.Stats // Merged integrator counters
}

// RaysPerSecond returns the total ray throughput of the render
func (rs RenderStats) RaysPerSecond() float64 {
	seconds := rs.Elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(rs.Rays.TotalRays()) / seconds
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an RGB
// byte buffer, in [0,1]
func CalculateAverageLuminance(pixels []byte) float64 {
	count := len(pixels) / 3
	if count == 0 {
		return 0
	}

	var total float64
	for p := 0; p < count; p++ {
		r := float64(pixels[p*3]) / 255
		g := float64(pixels[p*3+1]) / 255
		b := float64(pixels[p*3+2]) / 255
		total += 0.2126*r + 0.7152*g + 0.0722*b
	}
	return total / float64(count)
}
