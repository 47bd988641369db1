package render

import (
	"strconv"
	"strings"
)

// DiagPrefix starts every failure-isolation diagnostic line the hardened
// script prints. The fixed literal is pattern-matched by log consumers.
const DiagPrefix = "SCENEPATCH_ERR@@"

// PosMarker starts every on-demand position report. The token is chosen
// so it cannot collide with ordinary renderer output.
const PosMarker = "@SCNPOS:"

// posDelim separates the object name from the coordinate list and closes
// the report: MARKER<name>@@[x, y, z]@@.
const posDelim = "@@"

// Diagnostic is one failure report from a wrapped animation statement.
type Diagnostic struct {
	Line    int
	Message string
}

// PositionReport is one object position emitted by runtime code.
type PositionReport struct {
	Name string
	Pos  [3]float64
}

// ParseDiagnostic decodes a DiagPrefix line into its source line number
// and caught error text.
func ParseDiagnostic(line string) (Diagnostic, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), DiagPrefix)
	if !ok {
		return Diagnostic{}, false
	}
	num, msg, ok := strings.Cut(rest, posDelim)
	if !ok {
		return Diagnostic{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Diagnostic{}, false
	}
	return Diagnostic{Line: n, Message: msg}, true
}

// ParsePositionReport decodes a PosMarker line into an object name and a
// coordinate triple.
func ParsePositionReport(line string) (PositionReport, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), PosMarker)
	if !ok {
		return PositionReport{}, false
	}
	name, rest, ok := strings.Cut(rest, posDelim)
	if !ok || name == "" {
		return PositionReport{}, false
	}
	list, _, ok := strings.Cut(rest, posDelim)
	if !ok {
		return PositionReport{}, false
	}
	list = strings.TrimSpace(list)
	list = strings.TrimPrefix(list, "[")
	list = strings.TrimSuffix(list, "]")

	var pos [3]float64
	parts := strings.Split(list, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return PositionReport{}, false
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return PositionReport{}, false
		}
		pos[i] = f
	}
	return PositionReport{Name: name, Pos: pos}, true
}

// FormatPositionReport renders the line-oriented encoding runtime code
// emits for one object.
func FormatPositionReport(name string, pos [3]float64) string {
	var b strings.Builder
	b.WriteString(PosMarker)
	b.WriteString(name)
	b.WriteString(posDelim)
	b.WriteByte('[')
	for i, v := range pos {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.WriteByte(']')
	b.WriteString(posDelim)
	return b.String()
}
