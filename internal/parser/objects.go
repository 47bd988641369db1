package parser

import (
	"regexp"
	"strconv"
	"strings"

	"scenepatch/internal/catalog"
	"scenepatch/internal/textscan"
)

// consPattern matches `name = Type(` at statement start. Whether Type is
// constructible is decided against the catalog afterwards.
var consPattern = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_]\w*)[ \t]*=[ \t]*([A-Za-z_]\w*)\(`)

// positionMethods are the chained calls that govern placement.
var positionMethods = map[string]bool{
	"move_to": true,
	"next_to": true,
	"shift":   true,
}

// extractObjects recovers one Object per recognized constructor call.
// Later declarations of the same name win, matching script execution
// order.
func extractObjects(src string, scene *Scene, tbl *catalog.Table) {
	for _, m := range consPattern.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		typeName := src[m[4]:m[5]]

		entry, ok := tbl.Lookup(typeName)
		if !ok {
			continue
		}

		open := m[1] - 1
		close := textscan.MatchParen(src, open)
		if close <= open || src[close] != ')' {
			continue
		}

		o := &Object{
			Name:           name,
			Type:           typeName,
			Category:       entry.Category,
			Args:           src[open+1 : close],
			ArgStart:       open + 1,
			ArgEnd:         close,
			NameStart:      m[2],
			TextLike:       entry.TextLike(),
			GroupLike:      entry.GroupLike(),
			Scalable:       entry.Scalable(),
			AbsoluteCoords: entry.AbsoluteCoords(),
			Scale:          1,
		}

		applyGeometry(o, entry)
		applyStyle(o)

		chain := walkChain(src, close)
		o.ChainEnd = close + 1
		if len(chain) > 0 {
			o.ChainEnd = chain[len(chain)-1].Close + 1
		}
		for i := range chain {
			c := &chain[i]
			switch {
			case positionMethods[c.Method] && o.ChainedPos == nil:
				o.ChainedPos = c
			case c.Method == "move_to" && o.ChainedPos != nil && o.ChainedPos.Method != "move_to":
				// A chained move_to outranks an earlier next_to/shift.
				o.ChainedPos = c
			case c.Method == "scale" && o.ChainedScale == nil:
				if _, ok := parseScaleArg(src, c); ok {
					o.ChainedScale = c
				}
			}
		}

		if prev := scene.ByName[name]; prev != nil {
			for i, existing := range scene.Objects {
				if existing == prev {
					scene.Objects[i] = o
					break
				}
			}
		} else {
			scene.Objects = append(scene.Objects, o)
		}
		scene.ByName[name] = o
	}

	for _, o := range scene.Objects {
		attachSeparateCalls(src, o)
		resolvePosition(src, scene, o)
		if o.ChainedScale != nil {
			o.Scale, _ = parseScaleArg(src, o.ChainedScale)
		} else if o.SeparateScale != nil {
			o.Scale, _ = parseScaleArg(src, o.SeparateScale)
		}
	}
}

// applyGeometry fills dimension fields from the argument text, falling
// back to the catalog defaults when a parameter is absent.
func applyGeometry(o *Object, entry catalog.Entry) {
	switch entry.Category {
	case catalog.CategorySquare:
		o.SideLength = kwargFloat(o.Args, "side_length", entry.DefaultSide)
		o.OrigSideLength = o.SideLength
	case catalog.CategoryRectangle, catalog.CategoryEllipse:
		o.Width = kwargFloat(o.Args, "width", entry.DefaultWidth)
		o.Height = kwargFloat(o.Args, "height", entry.DefaultHeight)
		o.OrigWidth = o.Width
		o.OrigHeight = o.Height
	case catalog.CategoryCircle, catalog.CategoryDot:
		o.Radius = kwargFloat(o.Args, "radius", entry.DefaultRadius)
		o.OrigRadius = o.Radius
	}
}

// applyStyle extracts the optional font_size and color keywords.
func applyStyle(o *Object) {
	if fs, ok := findKwargFloat(o.Args, "font_size"); ok {
		o.FontSize = fs
		o.OrigFontSize = fs
	}
	if c, ok := findKwargToken(o.Args, "color"); ok {
		o.Color = c
		o.OrigColor = c
	}
}

// walkChain collects every .method(...) call chained directly after the
// ')' at close. Unknown calls are still recorded; their parentheses are
// bounded with the matcher so the walk cannot desynchronize on nested
// arguments.
func walkChain(src string, close int) []CallSpan {
	var chain []CallSpan
	pos := close + 1
	for {
		i := pos
		for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
			i++
		}
		if i >= len(src) || src[i] != '.' {
			return chain
		}
		j := i + 1
		for j < len(src) && textscan.IsWordByte(src[j]) {
			j++
		}
		if j == i+1 || j >= len(src) || src[j] != '(' {
			return chain
		}
		end := textscan.MatchParen(src, j)
		chain = append(chain, CallSpan{
			Method:  src[i+1 : j],
			Chained: true,
			Dot:     i,
			Open:    j,
			Close:   end,
		})
		pos = end + 1
	}
}

// attachSeparateCalls finds later standalone name.method(...) statements
// used when the constructor carries no chained position or scale call.
func attachSeparateCalls(src string, o *Object) {
	from := o.ChainEnd
	for {
		at := textscan.FindWholeWord(src, o.Name, from)
		if at < 0 {
			return
		}
		from = at + len(o.Name)

		// Only statement-initial references count.
		if strings.TrimSpace(src[textscan.LineStart(src, at):at]) != "" {
			continue
		}
		i := at + len(o.Name)
		if i >= len(src) || src[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(src) && textscan.IsWordByte(src[j]) {
			j++
		}
		if j >= len(src) || src[j] != '(' {
			continue
		}
		span := &CallSpan{
			Method: src[i+1 : j],
			Dot:    i,
			Open:   j,
			Close:  textscan.MatchParen(src, j),
		}
		// Skip the rest of this statement's chain before searching on.
		from = textscan.ChainEnd(src, span.Close)

		switch {
		case span.Method == "move_to" && (o.SeparatePos == nil || o.SeparatePos.Method != "move_to"):
			o.SeparatePos = span
		case positionMethods[span.Method] && o.SeparatePos == nil:
			o.SeparatePos = span
		case span.Method == "scale" && o.SeparateScale == nil:
			if _, ok := parseScaleArg(src, span); ok {
				o.SeparateScale = span
			}
		}
	}
}

// resolvePosition applies the chained-move > separate-move > none
// priority and resolves variable references through the variable table.
func resolvePosition(src string, scene *Scene, o *Object) {
	resolve := func(span *CallSpan, chained bool) bool {
		if span == nil || span.Method != "move_to" {
			return false
		}
		arg := strings.TrimSpace(src[span.Open+1 : span.Close])
		if isIdentifier(arg) {
			o.PosVar = arg
			o.PositionSource = PosVariable
			if v, ok := scene.Vars[arg]; ok {
				o.Position = v.Value
				v.RefCount++
			}
			return true
		}
		if pos, ok := parseCoordLiteral(arg); ok {
			o.Position = pos
			if chained {
				o.PositionSource = PosChainedMove
			} else {
				o.PositionSource = PosSeparateMove
			}
			return true
		}
		return false
	}

	if resolve(o.ChainedPos, true) {
		return
	}
	resolve(o.SeparatePos, false)
}

// parseCoordLiteral parses an inline [x, y, z] list or np.array([...])
// literal.
func parseCoordLiteral(arg string) ([3]float64, bool) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "np.array(") {
		inner := strings.TrimSuffix(strings.TrimPrefix(arg, "np.array("), ")")
		arg = strings.TrimSpace(inner)
	}
	if !strings.HasPrefix(arg, "[") || !strings.HasSuffix(arg, "]") {
		return [3]float64{}, false
	}
	return parseCoordList(arg[1 : len(arg)-1])
}

func parseScaleArg(src string, span *CallSpan) (float64, bool) {
	arg := strings.TrimSpace(src[span.Open+1 : span.Close])
	f, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !textscan.IsWordByte(s[i]) {
			return false
		}
	}
	return true
}

// kwargFloat returns the keyword's numeric value or the fallback.
func kwargFloat(args, key string, fallback float64) float64 {
	if v, ok := findKwargFloat(args, key); ok {
		return v
	}
	return fallback
}

var kwargFloatPatterns = map[string]*regexp.Regexp{}

func kwargFloatPattern(key string) *regexp.Regexp {
	if p, ok := kwargFloatPatterns[key]; ok {
		return p
	}
	p := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\s*=\s*(-?\d+(?:\.\d+)?)`)
	kwargFloatPatterns[key] = p
	return p
}

func findKwargFloat(args, key string) (float64, bool) {
	m := kwargFloatPattern(key).FindStringSubmatch(args)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// kwargTokenPattern matches an identifier or quoted-string keyword value.
var kwargTokenPatterns = map[string]*regexp.Regexp{}

func kwargTokenPattern(key string) *regexp.Regexp {
	if p, ok := kwargTokenPatterns[key]; ok {
		return p
	}
	p := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\s*=\s*([A-Za-z_]\w*|"[^"]*"|'[^']*')`)
	kwargTokenPatterns[key] = p
	return p
}

func findKwargToken(args, key string) (string, bool) {
	m := kwargTokenPattern(key).FindStringSubmatch(args)
	if m == nil {
		return "", false
	}
	return m[1], true
}
