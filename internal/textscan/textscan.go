package textscan

import (
	"math"
	"strconv"
	"strings"
)

// MatchParen returns the index of the ')' matching the '(' at open,
// counting parenthesis nesting only. On unbalanced input it returns the
// last index of s instead of failing.
func MatchParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return len(s) - 1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

// SplitTopLevel splits s on sep occurrences that sit outside any nesting
// of (), [] or {}. Quotes are not tracked; the scene scripts this tool
// handles do not put delimiters inside string arguments.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// IsWordByte reports whether b can appear inside an identifier.
func IsWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// FindWholeWord returns the index of the first occurrence of word in s at
// or after from that is not part of a longer identifier, or -1.
func FindWholeWord(s, word string, from int) int {
	if word == "" {
		return -1
	}
	for i := from; i+len(word) <= len(s); {
		j := strings.Index(s[i:], word)
		if j < 0 {
			return -1
		}
		at := i + j
		before := at == 0 || !IsWordByte(s[at-1])
		after := at+len(word) == len(s) || !IsWordByte(s[at+len(word)])
		if before && after {
			return at
		}
		i = at + 1
	}
	return -1
}

// CountWholeWord counts whole-word occurrences of word in s.
func CountWholeWord(s, word string) int {
	n := 0
	for at := FindWholeWord(s, word, 0); at >= 0; at = FindWholeWord(s, word, at+len(word)) {
		n++
	}
	return n
}

// FormatFloat renders v rounded to 4 decimal places with trailing zeros
// trimmed, so repeated edits produce byte-stable literals.
func FormatFloat(v float64) string {
	r := math.Round(v*10000) / 10000
	if r == 0 {
		r = 0 // normalize -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatList renders a coordinate triple as a bare Python list literal.
func FormatList(v [3]float64) string {
	return "[" + FormatFloat(v[0]) + ", " + FormatFloat(v[1]) + ", " + FormatFloat(v[2]) + "]"
}

// FormatArray renders a coordinate triple in the array-constructor form
// written back into source text.
func FormatArray(v [3]float64) string {
	return "np.array(" + FormatList(v) + ")"
}

// LineNumberAt returns the 1-based line number containing byte index idx.
func LineNumberAt(s string, idx int) int {
	if idx > len(s) {
		idx = len(s)
	}
	return 1 + strings.Count(s[:idx], "\n")
}

// LineStart returns the index of the first byte of the line containing idx.
func LineStart(s string, idx int) int {
	if idx > len(s) {
		idx = len(s)
	}
	return strings.LastIndex(s[:idx], "\n") + 1
}

// LineEnd returns the index just past the last byte of the line containing
// idx, excluding the newline itself.
func LineEnd(s string, idx int) int {
	if idx >= len(s) {
		return len(s)
	}
	if j := strings.IndexByte(s[idx:], '\n'); j >= 0 {
		return idx + j
	}
	return len(s)
}

// IndentAt returns the leading whitespace of the line containing idx.
func IndentAt(s string, idx int) string {
	start := LineStart(s, idx)
	end := start
	for end < len(s) && (s[end] == ' ' || s[end] == '\t') {
		end++
	}
	return s[start:end]
}

// ChainEnd advances past every chained .method(...) call that follows the
// ')' at close and returns the index just after the last one. Nested
// parentheses inside chained arguments are skipped via MatchParen, so the
// walk cannot desynchronize.
func ChainEnd(s string, close int) int {
	end := close + 1
	for {
		i := end
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) || s[i] != '.' {
			return end
		}
		j := i + 1
		for j < len(s) && IsWordByte(s[j]) {
			j++
		}
		if j == i+1 || j >= len(s) || s[j] != '(' {
			return end
		}
		end = MatchParen(s, j) + 1
	}
}
