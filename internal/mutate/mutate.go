// Package mutate applies one property change at a time to scene-script
// text. Each property runs an ordered strategy chain; the first strategy
// whose precondition matches the current text wins and returns the fully
// modified text, byte-identical everywhere else. When nothing matches the
// input text is returned unchanged; callers needing confirmation must
// diff the result themselves.
package mutate

import (
	"regexp"

	"scenepatch/internal/parser"
	"scenepatch/internal/textscan"
)

func splice(src string, start, end int, repl string) string {
	return src[:start] + repl + src[end:]
}

// rewriteInner replaces the argument text of a recorded call span.
func rewriteInner(src string, span *parser.CallSpan, arg string) string {
	return splice(src, span.Open+1, span.Close, arg)
}

// appendStatement inserts a new statement line for obj immediately after
// the constructor's full chain, at the constructor's indentation.
func appendStatement(src string, o *parser.Object, stmt string) string {
	at := textscan.LineEnd(src, o.ChainEnd)
	indent := textscan.IndentAt(src, o.NameStart)
	return splice(src, at, at, "\n"+indent+stmt)
}

var numberToken = `-?\d+(?:\.\d+)?`

var kwargValuePatterns = map[string]*regexp.Regexp{}

func kwargValuePattern(key string) *regexp.Regexp {
	if p, ok := kwargValuePatterns[key]; ok {
		return p
	}
	p := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\s*=\s*(` + numberToken + `)`)
	kwargValuePatterns[key] = p
	return p
}

// setKwarg is the shared rewrite-or-append keyword parameter primitive:
// it replaces the keyword's numeric value inside the constructor's
// argument text if present, otherwise appends the keyword, inserting a
// separating comma only when the argument list is nonempty.
func setKwarg(src string, o *parser.Object, key string, value float64) string {
	args := src[o.ArgStart:o.ArgEnd]
	lit := textscan.FormatFloat(value)

	if loc := kwargValuePattern(key).FindStringSubmatchIndex(args); loc != nil {
		return splice(src, o.ArgStart+loc[2], o.ArgStart+loc[3], lit)
	}

	if trimmedEmpty(args) {
		return splice(src, o.ArgEnd, o.ArgEnd, key+"="+lit)
	}
	return splice(src, o.ArgEnd, o.ArgEnd, ", "+key+"="+lit)
}

// setKwargIfPresent rewrites a keyword's numeric value only when the
// keyword already appears; an absent keyword is a no-op.
func setKwargIfPresent(src string, o *parser.Object, key string, value float64) (string, bool) {
	args := src[o.ArgStart:o.ArgEnd]
	loc := kwargValuePattern(key).FindStringSubmatchIndex(args)
	if loc == nil {
		return src, false
	}
	return splice(src, o.ArgStart+loc[2], o.ArgStart+loc[3], textscan.FormatFloat(value)), true
}

func trimmedEmpty(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
