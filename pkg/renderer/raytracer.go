package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	NumWorkers       int                // Goroutines for a parallel render, 0 = NumCPU
	ProgressInterval int                // Log every N scanlines, 0 disables progress
	Logger           core.Logger        // Progress output
	NewIntegrator    integrator.Factory // One integrator per worker
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers:       0,
		ProgressInterval: 32,
		Logger:           core.NewDefaultLogger(),
		NewIntegrator:    integrator.NewRecursiveIntegrator,
	}
}

// Raytracer renders a world into an RGB byte buffer, one scanline at a time
type Raytracer struct {
	world  *scene.World
	config RenderConfig
}

// NewRaytracer creates a new raytracer. Zero fields of config fall back to
// their defaults.
func NewRaytracer(world *scene.World, config RenderConfig) *Raytracer {
	defaults := DefaultRenderConfig()
	if config.Logger == nil {
		config.Logger = &core.NopLogger{}
	}
	if config.NewIntegrator == nil {
		config.NewIntegrator = defaults.NewIntegrator
	}
	return &Raytracer{world: world, config: config}
}

// Render traces every pixel and returns the buffer as width*height RGB
// triples, top row first. The output does not depend on the worker count.
func (rt *Raytracer) Render() ([]byte, RenderStats) {
	world := rt.world
	pixels := make([]byte, world.Width*world.Height*3)

	start := time.Now()
	var stats RenderStats
	if world.Features.Has(scene.FeatureParallel) {
		stats = rt.renderParallel(pixels)
	} else {
		stats = rt.renderSerial(pixels)
	}

	stats.Elapsed = time.Since(start)
	stats.Lines = world.Height
	stats.TotalPixels = world.Width * world.Height
	return pixels, stats
}

// renderSerial renders top to bottom on the calling goroutine
func (rt *Raytracer) renderSerial(pixels []byte) RenderStats {
	lineRenderer := NewLineRenderer(rt.world, rt.config.NewIntegrator(rt.world))
	for j := 0; j < rt.world.Height; j++ {
		rt.logProgress(j)
		lineRenderer.RenderLine(j, pixels)
	}
	return RenderStats{Workers: 1, Rays: lineRenderer.Stats()}
}

// renderParallel hands one task per scanline to a worker pool and merges
// the workers' stats after they have all finished
func (rt *Raytracer) renderParallel(pixels []byte) RenderStats {
	pool := NewWorkerPool(rt.world, pixels, rt.config.NewIntegrator, rt.config.NumWorkers)
	pool.Start()

	for j := 0; j < rt.world.Height; j++ {
		pool.SubmitTask(LineTask{Line: j, TaskID: j})
	}

	// Lines finish out of order, so progress counts completions
	for done := 0; done < rt.world.Height; done++ {
		if _, ok := pool.GetResult(); !ok {
			break
		}
		rt.logProgress(done)
	}

	pool.Stop()
	return RenderStats{Workers: pool.GetNumWorkers(), Rays: pool.Stats()}
}

func (rt *Raytracer) logProgress(line int) {
	interval := rt.config.ProgressInterval
	if interval > 0 && line%interval == 0 {
		rt.config.Logger.Printf("line %d\n", line)
	}
}
