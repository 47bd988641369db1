package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"scenepatch/internal/render"
	"scenepatch/internal/textscan"
	"scenepatch/internal/textutil"
)

// timingKwargs only govern timing/easing/batching and are meaningless for
// an instantaneous snap, so they are stripped from the fallback call.
var timingKwargs = regexp.MustCompile(`^(run_time|rate_func|lag_ratio)\s*=`)

// PassB wraps every remaining top-level animation statement in a
// failure-isolating block. On failure the block emits one diagnostic line
// with the offending source line number and the caught error text, then
// best-effort invokes the injected fallback routine. Line numbers index
// the idiom-substituted text, before the fallback routine is injected.
func PassB(src string) string {
	matches := playStmtPattern.FindAllStringIndex(src, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		stmtStart := textscan.LineStart(src, m[0])
		if alreadyWrapped(src, stmtStart) {
			continue
		}

		open := m[1] - 1
		close := textscan.MatchParen(src, open)
		stmtEnd := textscan.LineEnd(src, close)

		indent := textscan.IndentAt(src, m[0])
		lineNo := textscan.LineNumberAt(src, stmtStart)
		body := src[stmtStart:stmtEnd]
		args := src[open+1 : close]

		var lines []string
		lines = append(lines, indent+"try:  "+markerWrap)
		for _, l := range strings.Split(body, "\n") {
			lines = append(lines, "    "+l)
		}
		lines = append(lines,
			indent+"except Exception as _err:  "+markerCatch,
			indent+fmt.Sprintf(`    print(%q %% (%d, _err))`, render.DiagPrefix+"%d@@%s", lineNo),
			indent+"    try:",
			indent+"        "+snapFunc+"("+stripTimingKwargs(args)+")",
			indent+"    except Exception:",
			indent+"        pass",
			indent+markerWrapEnd,
		)

		src = src[:stmtStart] + strings.Join(lines, "\n") + src[stmtEnd:]
	}
	return src
}

// alreadyWrapped reports whether the statement at stmtStart sits directly
// under a generated try block.
func alreadyWrapped(src string, stmtStart int) bool {
	if stmtStart == 0 {
		return false
	}
	prev := src[textscan.LineStart(src, stmtStart-1):stmtStart]
	return strings.Contains(prev, markerWrap)
}

// stripTimingKwargs drops timing/easing/batching keyword arguments and
// collapses each remaining argument onto one line.
func stripTimingKwargs(args string) string {
	var kept []string
	for _, part := range textscan.SplitTopLevel(args, ',') {
		p := strings.TrimSpace(part)
		if p == "" || timingKwargs.MatchString(p) {
			continue
		}
		kept = append(kept, textutil.CollapseSpace(p))
	}
	return strings.Join(kept, ", ")
}
