package mutate

import (
	"scenepatch/internal/catalog"
	"scenepatch/internal/parser"
)

// SetWidth resizes one object along the horizontal axis. Dispatch is by
// shape category: squares write side_length, circles derive radius from a
// diameter request, rectangles and ellipses write width directly.
func SetWidth(scene *parser.Scene, name string, value float64) (string, bool) {
	return setDimension(scene, name, value, false)
}

// SetHeight resizes one object along the vertical axis; see SetWidth.
func SetHeight(scene *parser.Scene, name string, value float64) (string, bool) {
	return setDimension(scene, name, value, true)
}

func setDimension(scene *parser.Scene, name string, value float64, vertical bool) (string, bool) {
	src := scene.Source
	o := scene.Lookup(name)
	if o == nil {
		return src, false
	}

	var out string
	var prop string
	switch o.Category {
	case catalog.CategorySquare:
		out = setKwarg(src, o, "side_length", value)
		prop = "side_length"
	case catalog.CategoryRectangle, catalog.CategoryEllipse:
		if vertical {
			out = setKwarg(src, o, "height", value)
			prop = "height"
		} else {
			out = setKwarg(src, o, "width", value)
			prop = "width"
		}
	case catalog.CategoryCircle, catalog.CategoryDot:
		// Either axis is interpreted as a diameter.
		out = setKwarg(src, o, "radius", value/2)
		prop = "radius"
	default:
		return src, false
	}

	if out == src {
		return src, false
	}

	switch prop {
	case "side_length":
		o.SideLength = value
	case "width":
		o.Width = value
	case "height":
		o.Height = value
	case "radius":
		o.Radius = value / 2
	}
	o.MarkModified(prop)
	return out, true
}
