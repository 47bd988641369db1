package mutate

import (
	"regexp"

	"scenepatch/internal/parser"
)

// SetFontSize rewrites the font_size keyword inside the constructor's own
// argument text. An absent keyword is a no-op: appending one could change
// text layout for types that compute size differently.
func SetFontSize(scene *parser.Scene, name string, size float64) (string, bool) {
	src := scene.Source
	o := scene.Lookup(name)
	if o == nil {
		return src, false
	}

	out, ok := setKwargIfPresent(src, o, "font_size", size)
	if !ok || out == src {
		return src, false
	}
	o.FontSize = size
	o.MarkModified("font_size")
	return out, true
}

// colorValuePattern matches an identifier or quoted-string color value.
var colorValuePattern = regexp.MustCompile(`\bcolor\s*=\s*([A-Za-z_]\w*|"[^"]*"|'[^']*')`)

// SetColor rewrites the color keyword's value inside the constructor's
// argument text; absent keyword is a no-op. Hex values are written
// quoted, named constants bare.
func SetColor(scene *parser.Scene, name, color string) (string, bool) {
	src := scene.Source
	o := scene.Lookup(name)
	if o == nil {
		return src, false
	}

	args := src[o.ArgStart:o.ArgEnd]
	loc := colorValuePattern.FindStringSubmatchIndex(args)
	if loc == nil {
		return src, false
	}

	value := color
	if len(color) > 0 && color[0] == '#' {
		value = `"` + color + `"`
	}

	out := splice(src, o.ArgStart+loc[2], o.ArgStart+loc[3], value)
	if out == src {
		return src, false
	}
	o.Color = value
	o.MarkModified("color")
	return out, true
}
