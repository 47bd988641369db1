package rewrite

import "strings"

// Unwrap removes the injected fallback routine and every generated
// wrapper block, restoring the pre-wrap statement layout. For
// single-statement animation calls the result is whitespace-equivalent
// to the pre-wrap input. Orphaned markers are dropped rather than
// reported.
func Unwrap(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if strings.Contains(line, markerSnapBegin) {
			for i < len(lines) && !strings.Contains(lines[i], markerSnapEnd) {
				i++
			}
			continue
		}

		if strings.Contains(line, markerWrap) && !strings.Contains(line, markerWrapEnd) {
			i++
			for i < len(lines) && !strings.Contains(lines[i], markerCatch) {
				out = append(out, strings.TrimPrefix(lines[i], "    "))
				i++
			}
			for i < len(lines) && !strings.Contains(lines[i], markerWrapEnd) {
				i++
			}
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
