package sema

import (
	"slices"
	"sort"
)

// Category is the attribute-schema class of a tag.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryBasic
	CategoryMaterial
	CategoryCircle
	CategoryPlane
	CategoryCylinder
	CategoryText
	CategoryVideo
	CategoryModel
	CategoryInputText
	CategoryMaterialDescriptor
)

var categoryNames = map[Category]string{
	CategoryBasic:              "Basic",
	CategoryMaterial:           "Material",
	CategoryCircle:             "Circle",
	CategoryPlane:              "Plane",
	CategoryCylinder:           "Cylinder",
	CategoryText:               "Text",
	CategoryVideo:              "Video",
	CategoryModel:              "Model",
	CategoryInputText:          "InputText",
	CategoryMaterialDescriptor: "MaterialDescriptor",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// AttrRule declares one attribute relevant to a category.
type AttrRule struct {
	Name     string
	Required bool
}

// CategorySpec lists the rules a category adds on top of its parent.
type CategorySpec struct {
	Category Category
	Extends  Category
	Attrs    []AttrRule
}

func optional(names ...string) []AttrRule {
	out := make([]AttrRule, 0, len(names))
	for _, n := range names {
		out = append(out, AttrRule{Name: n})
	}
	return out
}

var categoryRegistry = map[Category]CategorySpec{
	CategoryBasic: {
		Category: CategoryBasic,
		Attrs:    optional("id", "position", "scale", "rotation", "look-at", "key", "visible", "billboard"),
	},
	CategoryMaterial: {
		Category: CategoryMaterial,
		Extends:  CategoryBasic,
		Attrs:    optional("color", "material", "with-collisions"),
	},
	CategoryCircle: {
		Category: CategoryCircle,
		Extends:  CategoryMaterial,
		Attrs:    optional("segments", "arc"),
	},
	CategoryPlane: {
		Category: CategoryPlane,
		Extends:  CategoryMaterial,
		Attrs:    optional("uvs"),
	},
	CategoryCylinder: {
		Category: CategoryCylinder,
		Extends:  CategoryMaterial,
		Attrs: optional("radius", "arc", "radius-top", "radius-bottom",
			"segments-radial", "segments-height", "open-ended"),
	},
	CategoryText: {
		Category: CategoryText,
		Extends:  CategoryBasic,
		Attrs: slices.Concat(
			optional("outline-width", "outline-color", "color", "font-family", "font-size",
				"font-weight", "opacity"),
			[]AttrRule{{Name: "value", Required: true}},
			optional("line-spacing", "text-wrapping", "h-align", "v-align", "width", "height",
				"line-count", "resize-to-fit", "shadow-blur", "shadow-offset-x", "shadow-offset-y",
				"z-index", "shadow-color", "padding-top", "padding-right", "padding-bottom",
				"padding-left"),
		),
	},
	CategoryVideo: {
		Category: CategoryVideo,
		Extends:  CategoryBasic,
		Attrs: append([]AttrRule{{Name: "src", Required: true}},
			optional("height", "width", "play", "loop", "volume")...),
	},
	CategoryModel: {
		Category: CategoryModel,
		Extends:  CategoryBasic,
		Attrs:    optional("src"),
	},
	CategoryInputText: {
		Category: CategoryInputText,
		Extends:  CategoryBasic,
		Attrs: optional("color", "font-family", "font-size", "value", "width", "height",
			"background", "focused-background", "outline-width", "max-length", "placeholder"),
	},
	CategoryMaterialDescriptor: {
		Category: CategoryMaterialDescriptor,
		Attrs: append([]AttrRule{{Name: "id", Required: true}},
			optional("alpha", "ambient-color", "albedo-color", "reflectivity-color", "reflection-color",
				"metallic", "roughness", "albedo-texture", "alpha-texture", "emisive-texture",
				"bump-texture", "refraction-texture", "direct-intensity", "emissive-intensity",
				"environment-intensity", "specular-intensity", "micro-surface", "disable-lighting",
				"transparency-mode", "has-alpha")...),
	},
}

var tagCategories = map[string]Category{
	"scene":      CategoryBasic,
	"entity":     CategoryBasic,
	"box":        CategoryMaterial,
	"sphere":     CategoryMaterial,
	"circle":     CategoryCircle,
	"plane":      CategoryPlane,
	"cylinder":   CategoryCylinder,
	"cone":       CategoryCylinder,
	"text":       CategoryText,
	"video":      CategoryVideo,
	"gltf-model": CategoryModel,
	"obj-model":  CategoryModel,
	"input-text": CategoryInputText,
	"material":   CategoryMaterialDescriptor,
}

// LookupTag returns the category for a tag name.
func LookupTag(name string) (Category, bool) {
	c, ok := tagCategories[name]
	return c, ok
}

// TagNames returns the closed tag vocabulary, sorted.
func TagNames() []string {
	names := make([]string, 0, len(tagCategories))
	for name := range tagCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules returns the attribute rules of c with inherited rules first. A name
// declared at several levels appears once, at its first position, required
// if any level requires it.
func Rules(c Category) []AttrRule {
	cat, ok := categoryRegistry[c]
	if !ok {
		return nil
	}
	var out []AttrRule
	if cat.Extends != CategoryUnknown {
		out = Rules(cat.Extends)
	}
	for _, r := range cat.Attrs {
		if i := slices.IndexFunc(out, func(x AttrRule) bool { return x.Name == r.Name }); i >= 0 {
			out[i].Required = out[i].Required || r.Required
			continue
		}
		out = append(out, r)
	}
	return out
}

// Declares reports whether name belongs to c's schema.
func Declares(c Category, name string) bool {
	return slices.ContainsFunc(Rules(c), func(r AttrRule) bool { return r.Name == name })
}
