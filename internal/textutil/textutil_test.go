package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))

	t.Run("never splits a multibyte rune", func(t *testing.T) {
		out := Truncate("Tex(\"αβγδε\")", 7)
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, "Tex(\"αβ...", out)
	})
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpace("  a\n\tb   c "))
}

func TestHashIsStable(t *testing.T) {
	assert.Equal(t, Hash("scene"), Hash("scene"))
	assert.NotEqual(t, Hash("scene"), Hash("scene2"))
	assert.Len(t, Hash(""), 64)
}
