package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const tinyScene = `# Scene: Tiny
background 0.2 0.2 0.2
eyep 0 0 8
lookp 0 0 0
up 0 1 0
screen 8 8
surface red
ambient 0.1 0.1 0.1
diffuse 0.8 0 0
sphere red 1 0 0 0
light 1 point 0 0 5
`

func writeScene(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiny.ray")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		opts        options
		expectError bool
	}{
		// Built-in scenes
		{"default scene", options{builtin: "default"}, false},
		{"cornell scene", options{builtin: "cornell"}, false},
		{"spheregrid scene", options{builtin: "spheregrid"}, false},

		// Ray scenes shipped in scenes/
		{"three-spheres by id", options{builtin: "ray:three-spheres"}, false},
		{"mirror-room by path", options{sceneFile: "scenes/mirror-room.ray"}, false},

		// Invalid scenes
		{"unknown scene", options{builtin: "nonexistent"}, true},
		{"unknown ray scene", options{builtin: "ray:nonexistent"}, true},
		{"empty ray scene name", options{builtin: "ray:"}, true},
		{"invalid path", options{sceneFile: "scenes/nonexistent.ray"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := createScene(&tt.opts)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %+v, but got none", tt.opts)
				}
				if desc != nil {
					t.Errorf("Expected nil scene for %+v", tt.opts)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for %+v: %v", tt.opts, err)
			}
			if desc.Width <= 0 || desc.Height <= 0 {
				t.Errorf("Scene size should be positive, got %dx%d", desc.Width, desc.Height)
			}

			// Every shipped scene must also build a valid world
			if _, err := scene.NewWorld(desc, scene.DefaultConfig()); err != nil {
				t.Errorf("Failed to build world: %v", err)
			}
		})
	}
}

func TestWorldConfig(t *testing.T) {
	fs, opts := newFlagSet(&bytes.Buffer{})
	if err := fs.Parse([]string{"-bvh", "-no-shadow", "-no-parallel"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	config, err := worldConfig(opts)
	if err != nil {
		t.Fatalf("worldConfig failed: %v", err)
	}
	if !config.UseBVH {
		t.Error("Expected -bvh to enable the BVH")
	}
	expected := scene.AllFeatures.Without(scene.FeatureShadow).Without(scene.FeatureParallel)
	if config.Features != expected {
		t.Errorf("Expected features %v, got %v", expected, config.Features)
	}
}

func TestRun_MissingSceneFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("Expected usage on stderr, got %q", stderr.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unreadable file", []string{filepath.Join(t.TempDir(), "missing.ray")}},
		{"malformed scene", []string{writeScene(t, "sphere nope 1 0 0 0\n")}},
		{"unknown flag", []string{"-bogus"}},
		{"unknown format", []string{"-format", "gif", "-o", filepath.Join(t.TempDir(), "out"), writeScene(t, tinyScene)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("Expected exit code 1, got %d", code)
			}
			if stderr.Len() == 0 {
				t.Error("Expected a message on stderr")
			}
		})
	}
}

func TestRun_RendersImage(t *testing.T) {
	output := filepath.Join(t.TempDir(), "trace.ppm")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-o", output, "-stats", "-workers", "2", writeScene(t, tinyScene)}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"1 Objects (1 Sphere, 0 Polygons); 1 Light", "line 0", "seconds", "Primary rays:     64"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	width, height, pixels, err := imageio.Load(output)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if width != 8 || height != 8 {
		t.Errorf("Expected 8x8 image, got %dx%d", width, height)
	}
	if pixels[0] != 51 {
		t.Errorf("Expected background corner 51, got %d", pixels[0])
	}
}

func TestRun_FormatFromExtension(t *testing.T) {
	output := filepath.Join(t.TempDir(), "trace.png")
	var stdout, stderr bytes.Buffer

	if code := run([]string{"-o", output, writeScene(t, tinyScene)}, &stdout, &stderr); code != 0 {
		t.Fatalf("Expected exit code 0, got %d: %s", code, stderr.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("Expected a PNG file, got header %q", data[:4])
	}
}

func TestRun_List(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}

	out := stdout.String()
	for _, want := range []string{"Built-in Scenes:", "default", "cornell", "ray:three-spheres", "Mirror Room - Facing Mirrors"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected listing to contain %q, got:\n%s", want, out)
		}
	}
}
