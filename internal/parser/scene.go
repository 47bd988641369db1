// Package parser recovers a structural model of scene scripts from raw
// text. It scans with regular expressions and manual balanced-delimiter
// walking instead of a grammar-aware parse; extraction is best-effort
// throughout, so malformed constructs are silently omitted and Parse
// never fails.
package parser

import "scenepatch/internal/catalog"

// Parse extracts objects, position variables, groups and animations from
// one immutable text snapshot. Every call rebuilds the model from
// scratch; no state survives between parses.
func Parse(src string, tbl *catalog.Table) *Scene {
	if tbl == nil {
		tbl = catalog.Default()
	}

	scene := &Scene{
		Source: src,
		ByName: make(map[string]*Object),
		Vars:   make(map[string]*PositionVar),
	}

	extractVariables(src, scene)
	extractObjects(src, scene, tbl)
	classifyPrivacy(src, scene)
	extractGroups(src, scene)
	extractAnimations(src, scene)

	return scene
}
