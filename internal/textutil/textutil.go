package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Hash computes a SHA-256 hex hash of a string for deduplication.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if
// truncated. Counting runes keeps multibyte text from being split
// mid-character.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

// CollapseSpace folds all runs of whitespace into single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
