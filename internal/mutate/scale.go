package mutate

import (
	"math"

	"scenepatch/internal/parser"
	"scenepatch/internal/textscan"
)

// identityTolerance: a requested factor this close to 1.0 removes the
// scale call instead of writing an identity scale.
const identityTolerance = 0.001

// SetScale sets one object's scale factor. A near-identity request
// removes any existing scale call; otherwise chained rewrite, then
// separate rewrite, then a new separate statement after the constructor's
// chain.
func SetScale(scene *parser.Scene, name string, factor float64) (string, bool) {
	src := scene.Source
	o := scene.Lookup(name)
	if o == nil {
		return src, false
	}

	out := writeScale(src, o, factor)
	if out == src {
		return src, false
	}
	o.Scale = factor
	o.MarkModified("scale")
	return out, true
}

func writeScale(src string, o *parser.Object, factor float64) string {
	if math.Abs(factor-1) < identityTolerance {
		if c := o.ChainedScale; c != nil {
			return splice(src, c.Dot, c.Close+1, "")
		}
		if s := o.SeparateScale; s != nil {
			start := textscan.LineStart(src, s.Dot)
			end := textscan.LineEnd(src, s.Close)
			if end < len(src) && src[end] == '\n' {
				end++
			}
			return splice(src, start, end, "")
		}
		return src
	}

	lit := textscan.FormatFloat(factor)
	if c := o.ChainedScale; c != nil {
		return rewriteInner(src, c, lit)
	}
	if s := o.SeparateScale; s != nil {
		return rewriteInner(src, s, lit)
	}
	return appendStatement(src, o, o.Name+".scale("+lit+")")
}
