// Package catalog holds the closed set of constructor and animation names
// the extractor recognizes. The defaults cover the common scene-script
// vocabulary; a YAML file can extend the constructor list for projects
// that define their own wrapper types.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category classifies how a constructor's geometry is expressed.
type Category string

const (
	CategorySquare    Category = "square"    // side_length
	CategoryRectangle Category = "rectangle" // width + height
	CategoryCircle    Category = "circle"    // radius
	CategoryEllipse   Category = "ellipse"   // width + height
	CategoryDot       Category = "dot"       // radius, point placed
	CategoryText      Category = "text"      // font_size
	CategoryGroup     Category = "group"     // members
	CategoryAbsolute  Category = "absolute"  // raw point lists
	CategoryOther     Category = "other"
)

// Entry describes one constructible type.
type Entry struct {
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`

	// Geometry defaults applied when the parameter is absent.
	DefaultSide   float64 `yaml:"default_side,omitempty"`
	DefaultWidth  float64 `yaml:"default_width,omitempty"`
	DefaultHeight float64 `yaml:"default_height,omitempty"`
	DefaultRadius float64 `yaml:"default_radius,omitempty"`
}

// TextLike reports whether objects of this type render text.
func (e Entry) TextLike() bool { return e.Category == CategoryText }

// GroupLike reports whether objects of this type contain other objects.
func (e Entry) GroupLike() bool { return e.Category == CategoryGroup }

// AbsoluteCoords reports whether objects of this type are placed by raw
// point lists rather than a center.
func (e Entry) AbsoluteCoords() bool {
	return e.Category == CategoryAbsolute || e.Category == CategoryDot
}

// Scalable reports whether a numeric .scale() call is meaningful for this
// type.
func (e Entry) Scalable() bool {
	switch e.Category {
	case CategoryGroup:
		return false
	default:
		return true
	}
}

// Constructors is the default closed catalog of constructible types.
var Constructors = []Entry{
	{Name: "Square", Category: CategorySquare, DefaultSide: 2},
	{Name: "Rectangle", Category: CategoryRectangle, DefaultWidth: 4, DefaultHeight: 2},
	{Name: "RoundedRectangle", Category: CategoryRectangle, DefaultWidth: 4, DefaultHeight: 2},
	{Name: "Circle", Category: CategoryCircle, DefaultRadius: 1},
	{Name: "Ellipse", Category: CategoryEllipse, DefaultWidth: 2, DefaultHeight: 1},
	{Name: "Annulus", Category: CategoryCircle, DefaultRadius: 2},
	{Name: "Dot", Category: CategoryDot, DefaultRadius: 0.08},
	{Name: "Text", Category: CategoryText},
	{Name: "Tex", Category: CategoryText},
	{Name: "MathTex", Category: CategoryText},
	{Name: "MarkupText", Category: CategoryText},
	{Name: "Paragraph", Category: CategoryText},
	{Name: "Integer", Category: CategoryText},
	{Name: "DecimalNumber", Category: CategoryText},
	{Name: "VGroup", Category: CategoryGroup},
	{Name: "Group", Category: CategoryGroup},
	{Name: "VDict", Category: CategoryGroup},
	{Name: "Line", Category: CategoryAbsolute},
	{Name: "DashedLine", Category: CategoryAbsolute},
	{Name: "Arrow", Category: CategoryAbsolute},
	{Name: "DoubleArrow", Category: CategoryAbsolute},
	{Name: "Vector", Category: CategoryAbsolute},
	{Name: "Polygon", Category: CategoryAbsolute},
	{Name: "Polyline", Category: CategoryAbsolute},
	{Name: "Triangle", Category: CategoryOther},
	{Name: "Star", Category: CategoryOther},
	{Name: "Arc", Category: CategoryCircle, DefaultRadius: 1},
	{Name: "NumberLine", Category: CategoryOther},
	{Name: "Axes", Category: CategoryOther},
	{Name: "NumberPlane", Category: CategoryOther},
	{Name: "Brace", Category: CategoryOther},
	{Name: "SurroundingRectangle", Category: CategoryRectangle, DefaultWidth: 4, DefaultHeight: 2},
	{Name: "ValueTracker", Category: CategoryOther},
}

// AnimationKinds lists animation constructor names in classification
// priority order: the first name found in a statement's argument text
// decides the statement's kind.
var AnimationKinds = []string{
	"ReplacementTransform",
	"TransformMatchingTex",
	"TransformMatchingShapes",
	"TransformFromCopy",
	"FadeTransform",
	"Transform",
	"ChangeDecimalToValue",
	"DrawBorderThenFill",
	"GrowFromCenter",
	"GrowFromEdge",
	"GrowArrow",
	"SpinInFromNothing",
	"FadeIn",
	"FadeOut",
	"Uncreate",
	"Unwrite",
	"Create",
	"Write",
	"AddTextLetterByLetter",
	"Indicate",
	"Circumscribe",
	"Flash",
	"Wiggle",
	"ApplyWave",
	"FocusOn",
	"Rotate",
	"Rotating",
	"MoveAlongPath",
	"LaggedStart",
	"AnimationGroup",
	"Succession",
	"Wait",
}

// KindAnimateChain overrides every other kind when a statement carries a
// .animate property-animation marker.
const KindAnimateChain = "animate"

// KindUnknown is assigned when no catalog name appears in the statement.
const KindUnknown = "unknown"

// Table indexes entries by constructor name.
type Table struct {
	entries map[string]Entry
}

// Default returns a table over the built-in constructor catalog.
func Default() *Table {
	return tableOf(Constructors)
}

func tableOf(entries []Entry) *Table {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		t.entries[e.Name] = e
	}
	return t
}

// Lookup returns the entry for a constructor name.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Names returns all constructor names in the table.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	return names
}

// overrideFile is the YAML shape accepted by LoadOverride.
type overrideFile struct {
	Constructors []Entry `yaml:"constructors"`
}

// LoadOverride returns the default table extended (or overridden) by the
// entries in a YAML file. An empty path returns the default table.
func LoadOverride(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog override: %w", err)
	}

	var of overrideFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return nil, fmt.Errorf("parse catalog override: %w", err)
	}

	for _, e := range of.Constructors {
		if e.Name == "" {
			continue
		}
		if e.Category == "" {
			e.Category = CategoryOther
		}
		t.entries[e.Name] = e
	}

	return t, nil
}
