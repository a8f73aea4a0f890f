package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier
	Name        string // Scene name
	DisplayName string // Listing display name
	Description string // Optional description
	Group       string // Grouping category
	Type        string // "builtin" or "ray"
	FilePath    string // Path to .ray file (ray type only)
	Variant     string // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

const builtinGroup = "Built-in Scenes"

// builtinScenes maps scene IDs to their constructors
var builtinScenes = []struct {
	info  SceneInfo
	build func() *loaders.RayScene
}{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Mirror, glass and diffuse spheres on a ground quad",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "cornell",
			Name:        "Cornell Box",
			Description: "Cornell box with a mirror and a glass sphere",
		},
		build: NewCornellScene,
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			Description: "10x10 grid of rainbow-colored reflective spheres",
		},
		build: func() *loaders.RayScene { return NewSphereGridScene(10) },
	},
}

// NewBuiltinScene returns the description of a built-in scene by ID
func NewBuiltinScene(id string) (*loaders.RayScene, error) {
	for _, builtin := range builtinScenes {
		if builtin.info.ID == id {
			return builtin.build(), nil
		}
	}
	return nil, fmt.Errorf("unknown built-in scene %q", id)
}

// ListBuiltinScenes returns metadata for every built-in scene
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	for i, builtin := range builtinScenes {
		info := builtin.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		scenes[i] = info
	}
	return scenes
}

// ListRayScenes scans dir for .ray files and returns their metadata.
// A missing directory yields an empty list.
func ListRayScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.ray"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseRayMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseRayMetadata extracts metadata from the leading comment block of a .ray file:
//
//	# Scene: Name
//	# Variant: ...
//	# Description: ...
//	# Group: ...
func ParseRayMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       fmt.Sprintf("ray:%s", nameWithoutExt),
		Name:     titleCase(nameWithoutExt),
		Group:    "Ray Scenes",
		Type:     "ray",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Metadata ends at the first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, found := strings.Cut(content, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns built-in scenes followed by the .ray scenes in dir,
// grouped by category: built-ins first, then groups alphabetically
func ListAllScenes(dir string) ([]SceneGroup, error) {
	rayScenes, err := ListRayScenes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list ray scenes: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range append(ListBuiltinScenes(), rayScenes...) {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtinGroup, Scenes: groupMap[builtinGroup]}}
	for _, groupName := range groupNames {
		groups = append(groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}
	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-spheres" -> "Glass Spheres"
func titleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
