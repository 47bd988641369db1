package parser

import (
	"regexp"
	"strings"

	"scenepatch/internal/catalog"
	"scenepatch/internal/textscan"
	"scenepatch/internal/textutil"
)

// playPattern matches top-level animation-invoking statements.
var playPattern = regexp.MustCompile(`(?m)^[ \t]*self\.play\(`)

// previewCap bounds the display-only preview string.
const previewCap = 80

// extractAnimations finds every self.play statement, its participant
// objects and its classified kind. Runs after groups so expansion can use
// descendant closures.
func extractAnimations(src string, scene *Scene) {
	for i, m := range playPattern.FindAllStringIndex(src, -1) {
		open := m[1] - 1
		close := textscan.MatchParen(src, open)
		args := src[open+1 : close]

		a := &Animation{
			Index:    i,
			Line:     textscan.LineNumberAt(src, m[0]),
			Args:     args,
			Start:    textscan.LineStart(src, m[0]),
			End:      close + 1,
			ArgOpen:  open,
			ArgClose: close,
			Kind:     classifyKind(args),
			Preview:  textutil.Truncate(textutil.CollapseSpace(args), previewCap),
		}

		for _, o := range scene.Objects {
			if textscan.FindWholeWord(args, o.Name, 0) >= 0 {
				a.Targets = append(a.Targets, o.Name)
			}
		}
		a.Expanded = expandTargets(scene, a.Targets)

		scene.Animations = append(scene.Animations, a)
	}
}

// classifyKind picks the first matching name from the priority-ordered
// animation catalog; a .animate chain marker overrides everything.
func classifyKind(args string) string {
	if strings.Contains(args, ".animate") {
		return catalog.KindAnimateChain
	}
	for _, kind := range catalog.AnimationKinds {
		if textscan.FindWholeWord(args, kind, 0) >= 0 {
			return kind
		}
	}
	return catalog.KindUnknown
}

// expandTargets replaces each group with its descendant closure,
// de-duplicated in order.
func expandTargets(scene *Scene, targets []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, name := range targets {
		o := scene.ByName[name]
		if o != nil && o.GroupLike {
			for _, d := range o.Descendants {
				add(d)
			}
			continue
		}
		add(name)
	}
	return out
}
