package scene

import (
	"fmt"
	"strings"
)

// Features is a bit set of optional rendering effects and primitive types
type Features uint32

const (
	FeatureAmbient Features = 1 << iota
	FeatureDiffuse
	FeatureSpecular
	FeatureShadow
	FeatureReflect
	FeatureRefract
	FeaturePolygons
	FeatureSpheres
	FeatureParallel
)

// AllFeatures enables everything
const AllFeatures = FeatureAmbient | FeatureDiffuse | FeatureSpecular | FeatureShadow |
	FeatureReflect | FeatureRefract | FeaturePolygons | FeatureSpheres | FeatureParallel

// featureNames lists every feature in bit order
var featureNames = []struct {
	flag Features
	name string
}{
	{FeatureAmbient, "ambient"},
	{FeatureDiffuse, "diffuse"},
	{FeatureSpecular, "specular"},
	{FeatureShadow, "shadow"},
	{FeatureReflect, "reflect"},
	{FeatureRefract, "refract"},
	{FeaturePolygons, "polygons"},
	{FeatureSpheres, "spheres"},
	{FeatureParallel, "parallel"},
}

// Has reports whether every bit of flag is set
func (f Features) Has(flag Features) bool {
	return f&flag == flag
}

// Without returns f with the bits of flag cleared
func (f Features) Without(flag Features) Features {
	return f &^ flag
}

// String lists the enabled features separated by '|'
func (f Features) String() string {
	var names []string
	for _, feature := range featureNames {
		if f.Has(feature.flag) {
			names = append(names, feature.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// FeatureNames returns the name of every feature in bit order
func FeatureNames() []string {
	names := make([]string, len(featureNames))
	for i, feature := range featureNames {
		names[i] = feature.name
	}
	return names
}

// ParseFeature looks up a feature by name
func ParseFeature(name string) (Features, error) {
	for _, feature := range featureNames {
		if feature.name == name {
			return feature.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}
