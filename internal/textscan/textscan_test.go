package textscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchParen(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		s := "f(a, b)"
		assert.Equal(t, 6, MatchParen(s, 1))
	})

	t.Run("nested", func(t *testing.T) {
		s := "f(g(h(x)), y)"
		assert.Equal(t, 12, MatchParen(s, 1))
		assert.Equal(t, 8, MatchParen(s, 3))
	})

	t.Run("unbalanced returns last index", func(t *testing.T) {
		s := "f(g(x)"
		assert.Equal(t, len(s)-1, MatchParen(s, 1))
	})

	t.Run("not an open paren", func(t *testing.T) {
		s := "abc"
		assert.Equal(t, len(s)-1, MatchParen(s, 0))
	})
}

func TestSplitTopLevel(t *testing.T) {
	parts := SplitTopLevel("a, f(b, c), [d, e], g", ',')
	assert.Equal(t, []string{"a", " f(b, c)", " [d, e]", " g"}, parts)

	assert.Equal(t, []string{""}, SplitTopLevel("", ','))
}

func TestWholeWord(t *testing.T) {
	s := "circ = Circle(radius=1).move_to(p)\ncircle2.move_to(pp)"

	assert.Equal(t, 0, FindWholeWord(s, "circ", 0))
	assert.Equal(t, 1, CountWholeWord(s, "circ"))
	assert.Equal(t, 1, CountWholeWord(s, "p"))
	assert.Equal(t, 1, CountWholeWord(s, "pp"))
	assert.Equal(t, 0, CountWholeWord(s, "irc"))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "2", FormatFloat(2.0))
	assert.Equal(t, "2.5", FormatFloat(2.5))
	assert.Equal(t, "0.3333", FormatFloat(1.0/3.0))
	assert.Equal(t, "-1.2346", FormatFloat(-1.23456))
	assert.Equal(t, "0", FormatFloat(0.00001))
}

func TestFormatVectorForms(t *testing.T) {
	v := [3]float64{2, 3, 0}
	assert.Equal(t, "[2, 3, 0]", FormatList(v))
	assert.Equal(t, "np.array([2, 3, 0])", FormatArray(v))
}

func TestLineHelpers(t *testing.T) {
	s := "a\n  bb\nccc"
	assert.Equal(t, 1, LineNumberAt(s, 0))
	assert.Equal(t, 2, LineNumberAt(s, 3))
	assert.Equal(t, 3, LineNumberAt(s, 8))
	assert.Equal(t, 2, LineStart(s, 3))
	assert.Equal(t, 6, LineEnd(s, 3))
	assert.Equal(t, "  ", IndentAt(s, 4))
}

func TestChainEnd(t *testing.T) {
	s := `sq = Square().move_to(np.array([0, 1, 0])).scale(2)`
	close := MatchParen(s, 11)
	assert.Equal(t, len(s), ChainEnd(s, close))

	t.Run("stops at non-call", func(t *testing.T) {
		s := "sq = Square().animate.shift(UP)"
		close := MatchParen(s, 11)
		// .animate is attribute access, not a call: the chain walk stops.
		assert.Equal(t, close+1, ChainEnd(s, close))
	})
}
