package rewrite

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"scenepatch/internal/parser"
	"scenepatch/internal/textscan"
)

var playStmtPattern = regexp.MustCompile(`(?m)^[ \t]*self\.play\(`)

// kwargArgPattern recognizes a top-level keyword argument of a play call.
var kwargArgPattern = regexp.MustCompile(`^[A-Za-z_]\w*\s*=`)

// hoistValueSetters extracts ChangeDecimalToValue(obj, v) out of each
// animation call into a preceding instantaneous obj.set_value(v)
// statement. A call left with no animation arguments becomes a
// zero-duration wait, keyword arguments included; a play carrying only
// kwargs would raise. The live update idiom crashes some renderer builds
// mid-animation; the snap is visually equivalent for a preview loop.
func hoistValueSetters(src string) string {
	matches := playStmtPattern.FindAllStringIndex(src, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		open := m[1] - 1
		close := textscan.MatchParen(src, open)
		args := src[open+1 : close]

		var hoisted, kept []string
		hasAnim := false
		for _, part := range textscan.SplitTopLevel(args, ',') {
			p := strings.TrimSpace(part)
			if stmt, ok := hoistOne(p); ok {
				hoisted = append(hoisted, stmt)
				continue
			}
			if p != "" {
				kept = append(kept, p)
				if !kwargArgPattern.MatchString(p) {
					hasAnim = true
				}
			}
		}
		if len(hoisted) == 0 {
			continue
		}

		stmtStart := textscan.LineStart(src, m[0])
		indent := textscan.IndentAt(src, m[0])

		var lines []string
		for _, h := range hoisted {
			lines = append(lines, indent+h)
		}
		if hasAnim {
			lines = append(lines, indent+"self.play("+strings.Join(kept, ", ")+")")
		} else {
			lines = append(lines, indent+"self.wait(0)")
		}

		src = src[:stmtStart] + strings.Join(lines, "\n") + src[close+1:]
	}
	return src
}

// hoistOne converts one ChangeDecimalToValue(obj, v) argument into its
// instantaneous equivalent. Trailing arguments configure the animation,
// not the value; carrying them into set_value would raise at runtime on
// an unwrapped statement, so only the value survives.
func hoistOne(part string) (string, bool) {
	open := strings.IndexByte(part, '(')
	if open < 0 || part[:open] != "ChangeDecimalToValue" {
		return "", false
	}
	close := textscan.MatchParen(part, open)
	sub := textscan.SplitTopLevel(part[open+1:close], ',')
	if len(sub) < 2 {
		return "", false
	}
	obj := strings.TrimSpace(sub[0])
	val := strings.TrimSpace(sub[1])
	if obj == "" || val == "" {
		return "", false
	}
	return obj + ".set_value(" + val + ")", true
}

var transformPattern = regexp.MustCompile(`\bTransform\(`)

// swapTextTransforms substitutes Transform with the cross-fade-style
// FadeTransform when either endpoint is text-like: cross-type transforms
// over text mobjects are a known renderer crash.
func swapTextTransforms(src string, scene *parser.Scene) string {
	matches := transformPattern.FindAllStringIndex(src, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		open := m[1] - 1
		close := textscan.MatchParen(src, open)

		parts := textscan.SplitTopLevel(src[open+1:close], ',')
		if len(parts) < 2 {
			continue
		}
		if !textLikeEndpoint(scene, parts[0]) && !textLikeEndpoint(scene, parts[1]) {
			continue
		}
		src = src[:m[0]] + "FadeTransform" + src[m[0]+len("Transform"):]
	}
	return src
}

func textLikeEndpoint(scene *parser.Scene, expr string) bool {
	o := scene.Lookup(strings.TrimSpace(expr))
	return o != nil && o.TextLike
}

// riskyIdioms are flagged for Pass B to catch at runtime rather than
// rewritten: a textual substitution would change matching semantics.
var riskyIdioms = []string{"TransformMatchingTex", "TransformMatchingShapes"}

func flagRisky(src string) {
	for _, name := range riskyIdioms {
		if at := textscan.FindWholeWord(src, name, 0); at >= 0 {
			log.Warn().
				Str("idiom", name).
				Int("line", textscan.LineNumberAt(src, at)).
				Msg("Risky animation idiom left for runtime fallback")
		}
	}
}

var constructPattern = regexp.MustCompile(`(?m)^([ \t]*)def construct\(self\):[^\n]*`)

// snapBody is the fallback routine injected inside the scene entry point.
// For each animation handle with a resolved end-state target the
// underlying object is forced to that state; otherwise the handle is
// driven through an instantaneous begin/finish/cleanup sequence. Every
// internal failure is swallowed: the routine must never raise.
var snapBody = []string{
	"def " + snapFunc + "(*anims, **kwargs):  " + markerSnapBegin,
	"    for _a in anims:",
	"        try:",
	"            _m = getattr(_a, \"mobject\", None)",
	"            _t = getattr(_a, \"target_copy\", None)",
	"            if _t is None:",
	"                _t = getattr(_a, \"target_mobject\", None)",
	"            if _m is not None and _t is not None:",
	"                _m.become(_t)",
	"            else:",
	"                _a.begin()",
	"                _a.interpolate(1)",
	"                _a.finish()",
	"                _a.clean_up_from_scene(self)",
	"        except Exception:",
	"            pass",
	markerSnapEnd,
}

// injectSnap inserts the fallback routine once, immediately inside the
// scene's entry point.
func injectSnap(src string) string {
	if strings.Contains(src, markerSnapBegin) {
		return src
	}
	m := constructPattern.FindStringSubmatchIndex(src)
	if m == nil {
		return src
	}
	indent := src[m[2]:m[3]] + "    "

	var b strings.Builder
	for _, line := range snapBody {
		b.WriteByte('\n')
		b.WriteString(indent)
		b.WriteString(line)
	}

	at := textscan.LineEnd(src, m[1])
	return src[:at] + b.String() + src[at:]
}
