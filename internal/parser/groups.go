package parser

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"scenepatch/internal/textscan"
)

// extractGroups resolves group membership: constructor arguments first,
// then any group.add(...) call found anywhere in the text, de-duplicated
// in order of first appearance.
func extractGroups(src string, scene *Scene) {
	for _, g := range scene.Objects {
		if !g.GroupLike {
			continue
		}

		var members []string
		seen := make(map[string]bool)
		keep := func(name string) {
			if name == g.Name || seen[name] {
				return
			}
			if _, ok := scene.ByName[name]; !ok {
				return
			}
			seen[name] = true
			members = append(members, name)
		}

		for _, part := range textscan.SplitTopLevel(g.Args, ',') {
			part = strings.TrimSpace(part)
			// Bare identifiers only; keyword arguments and expressions
			// are not members.
			if isIdentifier(part) {
				keep(part)
			}
		}

		addPattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(g.Name) + `\.add\(`)
		for _, m := range addPattern.FindAllStringIndex(src, -1) {
			open := m[1] - 1
			close := textscan.MatchParen(src, open)
			for _, part := range textscan.SplitTopLevel(src[open+1:close], ',') {
				part = strings.TrimSpace(part)
				if isIdentifier(part) {
					keep(part)
				}
			}
		}

		g.Children = members
		for _, child := range members {
			scene.ByName[child].Parent = g.Name
		}
	}

	for _, g := range scene.Objects {
		if !g.GroupLike {
			continue
		}
		visited := map[string]bool{g.Name: true}
		g.Descendants = descend(scene, g.Children, visited)

		for _, d := range g.Descendants {
			if o := scene.ByName[d]; o != nil && o.AbsoluteCoords {
				g.ChildrenAbsolute = true
				break
			}
		}
	}
}

// descend computes the transitive closure of children. The visited set
// bounds the walk so cyclic membership cannot recurse forever; a cycle is
// logged and the repeated member is not expanded again.
func descend(scene *Scene, children []string, visited map[string]bool) []string {
	var out []string
	for _, name := range children {
		if visited[name] {
			log.Warn().Str("object", name).Msg("Cyclic group membership, skipping re-expansion")
			continue
		}
		visited[name] = true
		out = append(out, name)

		if o := scene.ByName[name]; o != nil && len(o.Children) > 0 {
			out = append(out, descend(scene, o.Children, visited)...)
		}
	}
	return out
}
