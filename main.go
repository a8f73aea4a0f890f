package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const scenesDir = "scenes"

// options holds the parsed command line
type options struct {
	sceneFile string
	builtin   string
	output    string
	format    string
	workers   int
	bvh       bool
	stats     bool
	list      bool
	help      bool
	disabled  map[string]*bool
}

// writerLogger adapts an io.Writer to core.Logger
type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, format, args...)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// newFlagSet registers every command line flag on a fresh set
func newFlagSet(stderr io.Writer) (*flag.FlagSet, *options) {
	opts := &options{disabled: make(map[string]*bool)}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.builtin, "scene", "", "Render a built-in scene or a discovered ray:<name> scene instead of a file")
	fs.StringVar(&opts.output, "o", "trace.ppm", "Output image path")
	fs.StringVar(&opts.format, "format", "", "Output format: ppm, png, bmp or tiff (default: from the output extension)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.BoolVar(&opts.bvh, "bvh", false, "Use a bounding volume hierarchy instead of testing every object")
	fs.BoolVar(&opts.stats, "stats", false, "Print ray statistics after rendering")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	for _, name := range scene.FeatureNames() {
		opts.disabled[name] = fs.Bool("no-"+name, false, fmt.Sprintf("Disable %s", name))
	}

	fs.Usage = func() { printUsage(fs) }
	return fs, opts
}

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Whitted Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] scene.ray")
	fmt.Fprintln(w, "       raytracer [options] -scene <name>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs, opts := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if opts.help {
		fs.SetOutput(stdout)
		printUsage(fs)
		return 0
	}

	if opts.list {
		if err := printSceneList(stdout, scenesDir); err != nil {
			fmt.Fprintf(stderr, "Error listing scenes: %v\n", err)
			return 1
		}
		return 0
	}

	if fs.NArg() > 0 {
		opts.sceneFile = fs.Arg(0)
	}
	if opts.sceneFile == "" && opts.builtin == "" {
		fmt.Fprintln(stderr, "Error: no scene file given")
		printUsage(fs)
		return 1
	}

	if err := render(opts, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// render loads the scene, traces it and writes the output image
func render(opts *options, stdout io.Writer) error {
	desc, err := createScene(opts)
	if err != nil {
		return err
	}

	config, err := worldConfig(opts)
	if err != nil {
		return err
	}
	world, err := scene.NewWorld(desc, config)
	if err != nil {
		return err
	}

	format := imageio.FormatFromPath(opts.output)
	if opts.format != "" {
		if format, err = imageio.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, world.Summary())

	renderConfig := renderer.DefaultRenderConfig()
	renderConfig.NumWorkers = opts.workers
	renderConfig.Logger = writerLogger{w: stdout}
	pixels, stats := renderer.NewRaytracer(world, renderConfig).Render()

	fmt.Fprintf(stdout, "%.2f seconds\n", stats.Elapsed.Seconds())

	if err := imageio.Save(opts.output, format, world.Width, world.Height, pixels); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", opts.output)

	if opts.stats {
		printStats(stdout, stats, pixels)
	}
	return nil
}

// createScene resolves the scene description from a file path, a built-in
// scene ID or a discovered ray:<name> ID
func createScene(opts *options) (*loaders.RayScene, error) {
	if opts.sceneFile != "" {
		return loaders.LoadRay(opts.sceneFile)
	}

	if name, ok := strings.CutPrefix(opts.builtin, "ray:"); ok {
		if name == "" {
			return nil, fmt.Errorf("empty ray scene name")
		}
		return loaders.LoadRay(filepath.Join(scenesDir, name+".ray"))
	}
	return scene.NewBuiltinScene(opts.builtin)
}

// worldConfig turns the -bvh and -no-* flags into a world configuration
func worldConfig(opts *options) (scene.Config, error) {
	config := scene.DefaultConfig()
	config.UseBVH = opts.bvh

	for name, disabled := range opts.disabled {
		if !*disabled {
			continue
		}
		feature, err := scene.ParseFeature(name)
		if err != nil {
			return config, err
		}
		config.Features = config.Features.Without(feature)
	}
	return config, nil
}

func printSceneList(w io.Writer, dir string) error {
	groups, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	for _, group := range groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(w, "  %-20s %s - %s\n", info.ID, info.DisplayName, info.Description)
			} else {
				fmt.Fprintf(w, "  %-20s %s\n", info.ID, info.DisplayName)
			}
		}
	}
	return nil
}

// printStats writes the ray counters with grouped digits
func printStats(w io.Writer, stats renderer.RenderStats, pixels []byte) {
	p := message.NewPrinter(language.English)
	rays := stats.Rays

	p.Fprintf(w, "Pixels:           %d (%d lines, %d workers)\n", stats.TotalPixels, stats.Lines, stats.Workers)
	p.Fprintf(w, "Primary rays:     %d\n", rays.PrimaryRays)
	p.Fprintf(w, "Secondary rays:   %d\n", rays.SecondaryRays)
	p.Fprintf(w, "Shadow rays:      %d\n", rays.ShadowRays)
	p.Fprintf(w, "Shade calls:      %d\n", rays.ShadeCalls)
	p.Fprintf(w, "Internal reflect: %d\n", rays.TotalInternalReflections)
	p.Fprintf(w, "Max depth:        %d\n", rays.MaxDepthReached)
	p.Fprintf(w, "Rays per second:  %.0f\n", stats.RaysPerSecond())
	p.Fprintf(w, "Mean luminance:   %.4f\n", renderer.CalculateAverageLuminance(pixels))
}
