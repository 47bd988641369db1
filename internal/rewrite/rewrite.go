// Package rewrite makes scene scripts resilient to renderer failures.
// Pass A substitutes known-unsafe idioms; Pass B wraps every remaining
// animation statement in a failure-isolating block; a fallback routine is
// injected into the scene's entry point last. Unwrap is the inverse: the
// passes are re-applied fresh before every render and must never
// accumulate across cycles.
package rewrite

import (
	"scenepatch/internal/catalog"
	"scenepatch/internal/parser"
)

// Sentinel comments delimiting generated code, consumed by Unwrap.
const (
	markerSnapBegin = "# scenepatch:snap-begin"
	markerSnapEnd   = "# scenepatch:snap-end"
	markerWrap      = "# scenepatch:wrap"
	markerCatch     = "# scenepatch:catch"
	markerWrapEnd   = "# scenepatch:wrap-end"

	snapFunc = "__scenepatch_snap"
)

// Harden produces render-ready text: Pass A, then Pass B, then the
// fallback-routine injection, over a fresh parse of src. Injection comes
// last so the line numbers baked into Pass B's diagnostics match the text
// before the routine shifts everything below the entry point.
func Harden(src string, tbl *catalog.Table) string {
	scene := parser.Parse(src, tbl)
	return injectSnap(PassB(PassA(src, scene)))
}

// PassA applies the idiom transforms and flags risky constructs. The
// rules are independent but order-sensitive.
func PassA(src string, scene *parser.Scene) string {
	out := hoistValueSetters(src)
	out = swapTextTransforms(out, scene)
	flagRisky(out)
	return out
}
