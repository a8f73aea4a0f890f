package server

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const maxSceneBytes = 1 << 20

var renderCounter atomic.Int64

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string           // Scene ID, ignored when Source is set
	Source   []byte           // Inline .ray text from a POST body
	Width    int              // Image width, 0 keeps the scene's
	Height   int              // Image height, 0 keeps the scene's
	Format   imageio.Format   // Output encoding
	Workers  int              // Parallel workers, 0 = auto-detect
	UseBVH   bool             // Build a BVH over the primitives
	Disabled []scene.Features // Features turned off for this render
}

var contentTypes = map[imageio.Format]string{
	imageio.FormatPPM:  "image/x-portable-pixmap",
	imageio.FormatPNG:  "image/png",
	imageio.FormatBMP:  "image/bmp",
	imageio.FormatTIFF: "image/tiff",
}

// handleRender traces a whole scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use GET or POST")
		return
	}

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

	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	config := renderer.DefaultRenderConfig()
	config.NumWorkers = req.Workers
	// Render logs progress on this goroutine; one slot per line holds it all
	consoleChan := make(chan ConsoleMessage, world.Height+1)
	config.Logger = NewWebLogger(renderID, consoleChan)

	log.Printf("[%s] %s", renderID, world.Summary())
	pixels, stats := renderer.NewRaytracer(world, config).Render()
	close(consoleChan)
	progress := drainConsole(consoleChan)

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, req.Format, world.Width, world.Height, pixels); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("X-Render-Summary", world.Summary())
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Primary-Rays", strconv.FormatInt(stats.Rays.PrimaryRays, 10))
	w.Header().Set("X-Render-Total-Rays", strconv.FormatInt(stats.Rays.TotalRays(), 10))
	w.Header().Set("X-Render-Log", strings.Join(progress, "; "))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[%s] failed to write image: %v", renderID, err)
	}
}

// parseRenderRequest parses request parameters and, for POST, the scene body
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell" // Default scene
	}

	if r.Method == http.MethodPost {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read scene: %w", err)
		}
		if len(body) > maxSceneBytes {
			return nil, fmt.Errorf("scene exceeds %d bytes", maxSceneBytes)
		}
		req.Source = body
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.UseBVH, err = parseBoolParam(query, "bvh"); err != nil {
		return nil, err
	}

	req.Format = imageio.FormatPNG
	if format := query.Get("format"); format != "" {
		if req.Format, err = imageio.ParseFormat(format); err != nil {
			return nil, err
		}
	}

	if disable := query.Get("disable"); disable != "" {
		for _, name := range strings.Split(disable, ",") {
			feature, err := scene.ParseFeature(strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}
			req.Disabled = append(req.Disabled, feature)
		}
	}

	return req, nil
}

// buildWorld resolves the scene description and applies the overrides
func (s *Server) buildWorld(req *RenderRequest) (*scene.World, error) {
	desc, err := s.createScene(req)
	if err != nil {
		return nil, err
	}
	if req.Width > 0 {
		desc.Width = req.Width
	}
	if req.Height > 0 {
		desc.Height = req.Height
	}

	config := scene.DefaultConfig()
	config.UseBVH = req.UseBVH
	for _, feature := range req.Disabled {
		config.Features = config.Features.Without(feature)
	}
	return scene.NewWorld(desc, config)
}

// createScene returns the inline scene, a discovered ray:<name> scene or a
// built-in scene
func (s *Server) createScene(req *RenderRequest) (*loaders.RayScene, error) {
	if req.Source != nil {
		return loaders.ParseRay(bytes.NewReader(req.Source))
	}

	if name, ok := strings.CutPrefix(req.Scene, "ray:"); ok {
		// Only plain file names inside the scenes directory
		if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
			return nil, fmt.Errorf("invalid ray scene name %q", name)
		}
		return loaders.LoadRay(filepath.Join(s.scenesDir, name+".ray"))
	}
	return scene.NewBuiltinScene(req.Scene)
}
