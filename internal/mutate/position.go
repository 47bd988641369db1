package mutate

import (
	"scenepatch/internal/parser"
	"scenepatch/internal/textscan"
)

// SetPosition moves one object to an absolute position. Strategy order:
//
//  1. private referenced variable → rewrite the literal in the variable's
//     own assignment
//  2. chained move_to → rewrite its argument; chained next_to/shift →
//     replace the whole call with a move_to (relative becomes absolute)
//  3. separate move_to statement → rewrite its argument
//  4. separate next_to/shift statement → replace the statement with a
//     move_to at the same indentation
//  5. append a new move_to statement after the constructor's chain
//
// Returns the new text and whether any byte changed.
func SetPosition(scene *parser.Scene, name string, pos [3]float64) (string, bool) {
	src := scene.Source
	o := scene.Lookup(name)
	if o == nil {
		return src, false
	}

	// Moving a group's reference point would desynchronize descendants
	// placed by raw point lists, unless a position variable carries the
	// placement.
	if o.GroupLike && o.ChildrenAbsolute {
		v := scene.Vars[o.PosVar]
		if v == nil || !v.Resolved {
			return src, false
		}
	}

	out := writePosition(src, scene, o, pos)
	if out == src {
		return src, false
	}

	if o.GroupLike && o.PositionSource != parser.PosNone {
		delta := [3]float64{
			pos[0] - o.Position[0],
			pos[1] - o.Position[1],
			pos[2] - o.Position[2],
		}
		for _, d := range o.Descendants {
			if c := scene.Lookup(d); c != nil {
				c.Position[0] += delta[0]
				c.Position[1] += delta[1]
				c.Position[2] += delta[2]
			}
		}
	}
	o.Position = pos
	o.MarkModified("position")
	return out, true
}

func writePosition(src string, scene *parser.Scene, o *parser.Object, pos [3]float64) string {
	if o.PosVar != "" {
		if v := scene.Vars[o.PosVar]; v != nil && v.Private {
			return splice(src, v.AssignStart, v.AssignEnd, textscan.FormatList(pos))
		}
	}

	if c := o.ChainedPos; c != nil {
		if c.Method == "move_to" {
			return rewriteInner(src, c, textscan.FormatArray(pos))
		}
		return splice(src, c.Dot, c.Close+1, ".move_to("+textscan.FormatArray(pos)+")")
	}

	if s := o.SeparatePos; s != nil {
		if s.Method == "move_to" {
			return rewriteInner(src, s, textscan.FormatArray(pos))
		}
		start := textscan.LineStart(src, s.Dot)
		end := textscan.LineEnd(src, s.Close)
		indent := textscan.IndentAt(src, s.Dot)
		return splice(src, start, end, indent+o.Name+".move_to("+textscan.FormatArray(pos)+")")
	}

	return appendStatement(src, o, o.Name+".move_to("+textscan.FormatArray(pos)+")")
}
