package parser

import (
	"regexp"
	"strconv"
	"strings"

	"scenepatch/internal/textscan"
)

// varAssignPattern matches `p = [...]` and `p = np.array([...])`
// assignments at statement start. The bracket itself is bounded manually.
var varAssignPattern = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_]\w*)[ \t]*=[ \t]*(np\.array\()?[ \t]*\[`)

// extractVariables finds literal position-variable assignments. Lists with
// two numeric elements get a third coordinate of 0; anything that is not a
// pure 2/3-element numeric list is ignored.
func extractVariables(src string, scene *Scene) {
	for _, m := range varAssignPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		arrayForm := m[4] >= 0

		open := m[1] - 1 // the '[' is the last byte of the match
		close := matchBracket(src, open)
		if close < 0 {
			continue
		}

		value, ok := parseCoordList(src[open+1 : close])
		if !ok {
			continue
		}

		scene.Vars[name] = &PositionVar{
			Name:        name,
			Value:       value,
			Resolved:    true,
			ArrayForm:   arrayForm,
			AssignStart: open,
			AssignEnd:   close + 1,
			LineStart:   textscan.LineStart(src, open),
			LineEnd:     textscan.LineEnd(src, open),
		}
	}
}

// matchBracket returns the index of the ']' matching the '[' at open, or
// -1 when unbalanced.
func matchBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseCoordList parses "x, y" or "x, y, z" into a coordinate triple.
func parseCoordList(inner string) ([3]float64, bool) {
	parts := textscan.SplitTopLevel(inner, ',')
	if len(parts) < 2 || len(parts) > 3 {
		return [3]float64{}, false
	}

	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [3]float64{}, false
		}
		v[i] = f
	}
	return v, true
}

// classifyPrivacy computes the shared/private flag for every variable.
// A variable is private iff exactly one object references it via move-to
// and its whole-word occurrence count outside its own assignment line is
// at most 2. Needs full reference counts, so it runs after all objects
// are extracted.
func classifyPrivacy(src string, scene *Scene) {
	for _, v := range scene.Vars {
		total := textscan.CountWholeWord(src, v.Name)
		assignLine := src[v.LineStart:v.LineEnd]
		outside := total - textscan.CountWholeWord(assignLine, v.Name)
		v.Private = v.RefCount == 1 && outside <= 2
	}

	for _, o := range scene.Objects {
		if o.PosVar == "" {
			continue
		}
		if v, ok := scene.Vars[o.PosVar]; ok {
			o.PosVarPrivate = v.Private
		}
	}
}
