package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PrimitiveKind identifies the shape a RayPrimitive describes
type PrimitiveKind string

const (
	PrimitiveSphere  PrimitiveKind = "sphere"
	PrimitivePolygon PrimitiveKind = "polygon"
)

// RaySurface is a named set of appearance attributes as written in the file
type RaySurface struct {
	Name              string
	Ambient           core.Vec3
	Diffuse           core.Vec3
	Specular          core.Vec3
	SpecularPower     float64
	Reflect           float64
	Transmit          float64
	IndexOfRefraction float64
}

// RayLight is a light statement: scalar intensity, type token and position
type RayLight struct {
	Intensity float64
	Type      string // Recorded but unused, every light is a point light
	Position  core.Vec3
	Line      int
}

// RayPrimitive is a sphere or polygon statement. Surface holds a copy of the
// named surface as it was when the primitive was read.
type RayPrimitive struct {
	Kind     PrimitiveKind
	Surface  RaySurface
	Center   core.Vec3   // Sphere only
	Radius   float64     // Sphere only
	Vertices []core.Vec3 // Polygon only
	Line     int
}

// RayScene contains all parsed .ray scene data
type RayScene struct {
	Background core.Vec3
	Eye        core.Vec3
	LookAt     core.Vec3
	Up         core.Vec3
	HFov, VFov float64
	Width      int
	Height     int
	MaxDepth   int
	Cutoff     float64

	Surfaces   []RaySurface   // Named surfaces in definition order, final attribute values
	Primitives []RayPrimitive // Spheres and polygons in file order
	Lights     []RayLight
}

// DefaultRayScene returns the scene state before any statement is applied
func DefaultRayScene() *RayScene {
	return &RayScene{
		Background: core.NewVec3(0, 0, 0),
		Eye:        core.NewVec3(0, -8, 0),
		LookAt:     core.NewVec3(0, 0, 0),
		Up:         core.NewVec3(0, 1, 0),
		HFov:       45,
		VFov:       45,
		Width:      512,
		Height:     512,
		MaxDepth:   15,
		Cutoff:     0.002,
	}
}

// DefaultRaySurface returns the attributes of a freshly opened surface
func DefaultRaySurface(name string) RaySurface {
	return RaySurface{
		Name:              name,
		Diffuse:           core.NewVec3(1, 1, 1),
		IndexOfRefraction: 1,
	}
}

// token is a single whitespace-separated word and the line it came from
type token struct {
	text string
	line int
}

// RayParser holds the token stream and the surface table while parsing
type RayParser struct {
	tokens   []token
	pos      int
	scene    *RayScene
	surfaces map[string]int // Name -> index into scene.Surfaces
	current  int            // Index of the surface attributes apply to
}

// ParseRay parses .ray content from an io.Reader
func ParseRay(reader io.Reader) (*RayScene, error) {
	tokens, err := tokenize(reader)
	if err != nil {
		return nil, err
	}

	parser := newRayParser(tokens)
	if err := parser.parse(); err != nil {
		return nil, err
	}
	return parser.scene, nil
}

// LoadRay loads and parses a .ray scene file
func LoadRay(filename string) (*RayScene, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	scene, err := ParseRay(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scene, nil
}

// tokenize splits the input into words, dropping '#' comments. Lines may be
// any length.
func tokenize(reader io.Reader) ([]token, error) {
	var tokens []token
	br := bufio.NewReader(reader)
	lineNumber := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNumber++
			if idx := strings.IndexByte(line, '#'); idx >= 0 {
				line = line[:idx]
			}
			for _, field := range strings.Fields(line) {
				tokens = append(tokens, token{text: field, line: lineNumber})
			}
		}
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error reading input: %w", err)
		}
	}
}

// newRayParser creates a parser over a token stream. Attributes given before
// any surface statement apply to the unnamed surface "".
func newRayParser(tokens []token) *RayParser {
	scene := DefaultRayScene()
	scene.Surfaces = []RaySurface{DefaultRaySurface("")}
	return &RayParser{
		tokens:   tokens,
		scene:    scene,
		surfaces: map[string]int{"": 0},
		current:  0,
	}
}

func (p *RayParser) parse() error {
	for p.pos < len(p.tokens) {
		keyword := p.next()
		if err := p.statement(keyword); err != nil {
			return err
		}
	}
	return nil
}

// statement dispatches on a keyword and consumes its arguments
func (p *RayParser) statement(keyword token) error {
	scene := p.scene
	var err error

	switch keyword.text {
	case "maxdepth":
		scene.MaxDepth, err = p.intArg(keyword)
	case "cutoff":
		scene.Cutoff, err = p.floatArg(keyword)
	case "background":
		scene.Background, err = p.colorArg(keyword)
	case "eyep":
		scene.Eye, err = p.vec3Arg(keyword)
	case "lookp":
		scene.LookAt, err = p.vec3Arg(keyword)
	case "up":
		scene.Up, err = p.vec3Arg(keyword)
	case "fov":
		if scene.HFov, err = p.floatArg(keyword); err == nil {
			scene.VFov, err = p.floatArg(keyword)
		}
	case "screen":
		if scene.Width, err = p.intArg(keyword); err == nil {
			scene.Height, err = p.intArg(keyword)
		}

	case "surface":
		var name token
		if name, err = p.wordArg(keyword); err == nil {
			p.openSurface(name.text)
		}
	case "ambient":
		scene.Surfaces[p.current].Ambient, err = p.colorArg(keyword)
	case "diffuse":
		scene.Surfaces[p.current].Diffuse, err = p.colorArg(keyword)
	case "specular":
		scene.Surfaces[p.current].Specular, err = p.colorArg(keyword)
	case "specpow":
		scene.Surfaces[p.current].SpecularPower, err = p.floatArg(keyword)
	case "reflect":
		scene.Surfaces[p.current].Reflect, err = p.floatArg(keyword)
	case "transp":
		scene.Surfaces[p.current].Transmit, err = p.floatArg(keyword)
	case "index":
		scene.Surfaces[p.current].IndexOfRefraction, err = p.floatArg(keyword)

	case "light":
		err = p.light(keyword)
	case "sphere":
		err = p.sphere(keyword)
	case "polygon":
		err = p.polygon(keyword)

	default:
		return fmt.Errorf("line %d: unknown keyword %q", keyword.line, keyword.text)
	}
	return err
}

// openSurface makes name the current surface, creating it on first use
func (p *RayParser) openSurface(name string) {
	if idx, ok := p.surfaces[name]; ok {
		p.current = idx
		return
	}
	p.scene.Surfaces = append(p.scene.Surfaces, DefaultRaySurface(name))
	p.current = len(p.scene.Surfaces) - 1
	p.surfaces[name] = p.current
}

// lookupSurface returns a copy of the named surface's current attributes
func (p *RayParser) lookupSurface(name token) (RaySurface, error) {
	idx, ok := p.surfaces[name.text]
	if !ok {
		return RaySurface{}, fmt.Errorf("line %d: unknown surface %q", name.line, name.text)
	}
	return p.scene.Surfaces[idx], nil
}

// light parses: light intensity type x y z
func (p *RayParser) light(keyword token) error {
	intensity, err := p.floatArg(keyword)
	if err != nil {
		return err
	}
	lightType, err := p.wordArg(keyword)
	if err != nil {
		return err
	}
	position, err := p.vec3Arg(keyword)
	if err != nil {
		return err
	}
	p.scene.Lights = append(p.scene.Lights, RayLight{
		Intensity: intensity,
		Type:      lightType.text,
		Position:  position,
		Line:      keyword.line,
	})
	return nil
}

// sphere parses: sphere surface radius cx cy cz
func (p *RayParser) sphere(keyword token) error {
	name, err := p.wordArg(keyword)
	if err != nil {
		return err
	}
	surface, err := p.lookupSurface(name)
	if err != nil {
		return err
	}
	radius, err := p.floatArg(keyword)
	if err != nil {
		return err
	}
	center, err := p.vec3Arg(keyword)
	if err != nil {
		return err
	}
	p.scene.Primitives = append(p.scene.Primitives, RayPrimitive{
		Kind:    PrimitiveSphere,
		Surface: surface,
		Center:  center,
		Radius:  radius,
		Line:    keyword.line,
	})
	return nil
}

// polygon parses: polygon surface followed by x y z triples up to the next
// non-numeric token
func (p *RayParser) polygon(keyword token) error {
	name, err := p.wordArg(keyword)
	if err != nil {
		return err
	}
	surface, err := p.lookupSurface(name)
	if err != nil {
		return err
	}

	var vertices []core.Vec3
	for p.peekNumber() {
		vertex, err := p.vec3Arg(keyword)
		if err != nil {
			return fmt.Errorf("line %d: polygon vertex %d is incomplete", keyword.line, len(vertices))
		}
		vertices = append(vertices, vertex)
	}
	if len(vertices) < 3 {
		return fmt.Errorf("line %d: polygon needs at least 3 vertices, got %d", keyword.line, len(vertices))
	}

	p.scene.Primitives = append(p.scene.Primitives, RayPrimitive{
		Kind:     PrimitivePolygon,
		Surface:  surface,
		Vertices: vertices,
		Line:     keyword.line,
	})
	return nil
}

func (p *RayParser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// peekNumber reports whether the next token parses as a number
func (p *RayParser) peekNumber() bool {
	if p.pos >= len(p.tokens) {
		return false
	}
	_, err := strconv.ParseFloat(p.tokens[p.pos].text, 64)
	return err == nil
}

// wordArg consumes any token as an argument of keyword
func (p *RayParser) wordArg(keyword token) (token, error) {
	if p.pos >= len(p.tokens) {
		return token{}, fmt.Errorf("line %d: %s: missing argument", keyword.line, keyword.text)
	}
	return p.next(), nil
}

func (p *RayParser) floatArg(keyword token) (float64, error) {
	arg, err := p.wordArg(keyword)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(arg.text, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s: expected number, got %q", arg.line, keyword.text, arg.text)
	}
	return value, nil
}

func (p *RayParser) intArg(keyword token) (int, error) {
	arg, err := p.wordArg(keyword)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(arg.text)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s: expected integer, got %q", arg.line, keyword.text, arg.text)
	}
	return value, nil
}

func (p *RayParser) vec3Arg(keyword token) (core.Vec3, error) {
	var v [3]float64
	for i := range v {
		value, err := p.floatArg(keyword)
		if err != nil {
			return core.Vec3{}, err
		}
		v[i] = value
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// colorArg accepts either three numbers or a single CSS color name
func (p *RayParser) colorArg(keyword token) (core.Vec3, error) {
	if p.pos < len(p.tokens) && !p.peekNumber() {
		arg := p.next()
		named, ok := colornames.Map[strings.ToLower(arg.text)]
		if !ok {
			return core.Vec3{}, fmt.Errorf("line %d: %s: unknown color %q", arg.line, keyword.text, arg.text)
		}
		return core.NewVec3(float64(named.R)/255, float64(named.G)/255, float64(named.B)/255), nil
	}
	return p.vec3Arg(keyword)
}

// SurfaceByName returns the final attributes of a named surface
func (s *RayScene) SurfaceByName(name string) (RaySurface, bool) {
	for _, surface := range s.Surfaces {
		if surface.Name == name {
			return surface, true
		}
	}
	return RaySurface{}, false
}

// AddSphere appends a sphere with a copy of surface
func (s *RayScene) AddSphere(surface RaySurface, center core.Vec3, radius float64) {
	s.Primitives = append(s.Primitives, RayPrimitive{
		Kind:    PrimitiveSphere,
		Surface: surface,
		Center:  center,
		Radius:  radius,
	})
}

// AddPolygon appends a polygon with a copy of surface
func (s *RayScene) AddPolygon(surface RaySurface, vertices ...core.Vec3) {
	s.Primitives = append(s.Primitives, RayPrimitive{
		Kind:     PrimitivePolygon,
		Surface:  surface,
		Vertices: append([]core.Vec3(nil), vertices...),
	})
}

// AddLight appends a point light of the given scalar intensity
func (s *RayScene) AddLight(intensity float64, position core.Vec3) {
	s.Lights = append(s.Lights, RayLight{
		Intensity: intensity,
		Type:      "point",
		Position:  position,
	})
}
