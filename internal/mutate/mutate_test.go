package mutate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenepatch/internal/parser"
)

func parse(t *testing.T, src string) *parser.Scene {
	t.Helper()
	return parser.Parse(src, nil)
}

func TestSetPositionPrivateVariable(t *testing.T) {
	src := "p = [0, 0, 0]\n" +
		"circ = Circle(radius=1).move_to(p)\n"
	scene := parse(t, src)

	out, changed := SetPosition(scene, "circ", [3]float64{2, 3, 0})
	require.True(t, changed)

	want := "p = [2, 3, 0]\n" +
		"circ = Circle(radius=1).move_to(p)\n"
	assert.Empty(t, cmp.Diff(want, out))

	t.Run("round-trip reads back the same coordinates", func(t *testing.T) {
		again := parse(t, out)
		assert.Equal(t, [3]float64{2, 3, 0}, again.Lookup("circ").Position)
	})

	t.Run("array-literal form is preserved", func(t *testing.T) {
		src := "p = np.array([0, 0, 0])\n" +
			"circ = Circle(radius=1).move_to(p)\n"
		out, changed := SetPosition(parse(t, src), "circ", [3]float64{2, 3, 0})
		require.True(t, changed)
		assert.Equal(t, "p = np.array([2, 3, 0])\ncirc = Circle(radius=1).move_to(p)\n", out)
	})
}

func TestSetPositionSharedVariable(t *testing.T) {
	src := "p = [0, 0, 0]\n" +
		"circ = Circle(radius=1).move_to(p)\n" +
		"dot = Dot()\n" +
		"dot.move_to(p)\n"
	scene := parse(t, src)

	out, changed := SetPosition(scene, "circ", [3]float64{2, 3, 0})
	require.True(t, changed)

	// The shared variable's own assignment stays byte-identical; circ's
	// move-to gets an inline literal instead.
	want := "p = [0, 0, 0]\n" +
		"circ = Circle(radius=1).move_to(np.array([2, 3, 0]))\n" +
		"dot = Dot()\n" +
		"dot.move_to(p)\n"
	assert.Empty(t, cmp.Diff(want, out))
}

func TestSetPositionStrategies(t *testing.T) {
	t.Run("chained next_to becomes move_to", func(t *testing.T) {
		src := "sq = Square(side_length=2)\n" +
			"label = Text(\"hi\").next_to(sq, UP)\n"
		out, changed := SetPosition(parse(t, src), "label", [3]float64{1, 1, 0})
		require.True(t, changed)
		assert.Contains(t, out, "label = Text(\"hi\").move_to(np.array([1, 1, 0]))\n")
		assert.NotContains(t, out, "next_to")
	})

	t.Run("separate move_to rewritten in place", func(t *testing.T) {
		src := "dot = Dot()\n" +
			"dot.move_to([0, 1, 0])\n"
		out, changed := SetPosition(parse(t, src), "dot", [3]float64{2, 2, 0})
		require.True(t, changed)
		assert.Equal(t, "dot = Dot()\ndot.move_to(np.array([2, 2, 0]))\n", out)
	})

	t.Run("separate shift replaced at same indentation", func(t *testing.T) {
		src := "        dot = Dot()\n" +
			"        dot.shift(UP)\n"
		out, changed := SetPosition(parse(t, src), "dot", [3]float64{0, 2, 0})
		require.True(t, changed)
		assert.Equal(t, "        dot = Dot()\n        dot.move_to(np.array([0, 2, 0]))\n", out)
	})

	t.Run("no placement appends after the chain", func(t *testing.T) {
		src := "    sq = Square(side_length=2).scale(2)\n    circ = Circle()\n"
		out, changed := SetPosition(parse(t, src), "sq", [3]float64{1, 0, 0})
		require.True(t, changed)
		want := "    sq = Square(side_length=2).scale(2)\n" +
			"    sq.move_to(np.array([1, 0, 0]))\n" +
			"    circ = Circle()\n"
		assert.Empty(t, cmp.Diff(want, out))
	})
}

func TestSetPositionIdempotent(t *testing.T) {
	src := "circ = Circle(radius=1).move_to([0, 0, 0])\n"
	scene := parse(t, src)

	first, changed := SetPosition(scene, "circ", [3]float64{1.23456, 0, 0})
	require.True(t, changed)

	second, changed := SetPosition(parse(t, first), "circ", [3]float64{1.23456, 0, 0})
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestGroupPosition(t *testing.T) {
	t.Run("delta propagates to descendant positions", func(t *testing.T) {
		src := "a = Square(side_length=1).move_to([0, 0, 0])\n" +
			"b = Circle(radius=1).move_to([1, 1, 0])\n" +
			"g = VGroup(a, b).move_to([1, 0, 0])\n"
		scene := parse(t, src)

		out, changed := SetPosition(scene, "g", [3]float64{2, 1, 1})
		require.True(t, changed)
		assert.Contains(t, out, "g = VGroup(a, b).move_to(np.array([2, 1, 1]))")

		assert.Equal(t, [3]float64{1, 1, 1}, scene.Lookup("a").Position)
		assert.Equal(t, [3]float64{2, 2, 1}, scene.Lookup("b").Position)
	})

	t.Run("absolute-coordinate children block the move", func(t *testing.T) {
		src := "ln = Line([0, 0, 0], [1, 0, 0])\n" +
			"g = VGroup(ln).move_to([1, 0, 0])\n"
		scene := parse(t, src)

		out, changed := SetPosition(scene, "g", [3]float64{5, 5, 0})
		assert.False(t, changed)
		assert.Equal(t, src, out)
	})

	t.Run("a resolvable variable lifts the block", func(t *testing.T) {
		src := "gp = [1, 0, 0]\n" +
			"ln = Line([0, 0, 0], [1, 0, 0])\n" +
			"g = VGroup(ln).move_to(gp)\n"
		scene := parse(t, src)

		out, changed := SetPosition(scene, "g", [3]float64{5, 5, 0})
		require.True(t, changed)
		assert.Contains(t, out, "gp = [5, 5, 0]")
	})
}

func TestSetScale(t *testing.T) {
	t.Run("chained rewrite", func(t *testing.T) {
		src := "sq = Square(side_length=2).scale(2)\n"
		out, changed := SetScale(parse(t, src), "sq", 3)
		require.True(t, changed)
		assert.Equal(t, "sq = Square(side_length=2).scale(3)\n", out)
	})

	t.Run("identity removes chained scale", func(t *testing.T) {
		src := "sq = Square(side_length=2).scale(2).shift(UP)\n"
		out, changed := SetScale(parse(t, src), "sq", 1.0)
		require.True(t, changed)
		assert.Equal(t, "sq = Square(side_length=2).shift(UP)\n", out)
	})

	t.Run("identity removes separate scale statement", func(t *testing.T) {
		src := "sq = Square(side_length=2)\nsq.scale(2)\ncirc = Circle()\n"
		out, changed := SetScale(parse(t, src), "sq", 0.9999)
		require.True(t, changed)
		assert.Equal(t, "sq = Square(side_length=2)\ncirc = Circle()\n", out)
	})

	t.Run("identity with no scale call is a no-op", func(t *testing.T) {
		src := "sq = Square(side_length=2)\n"
		out, changed := SetScale(parse(t, src), "sq", 1.0)
		assert.False(t, changed)
		assert.Equal(t, src, out)
	})

	t.Run("append when no call exists", func(t *testing.T) {
		src := "sq = Square(side_length=2)\n"
		out, changed := SetScale(parse(t, src), "sq", 2.5)
		require.True(t, changed)
		assert.Equal(t, "sq = Square(side_length=2)\nsq.scale(2.5)\n", out)
	})
}

func TestSetDimensions(t *testing.T) {
	t.Run("square width writes side_length", func(t *testing.T) {
		src := "sq = Square(side_length=2)\n"
		out, changed := SetWidth(parse(t, src), "sq", 4)
		require.True(t, changed)
		assert.Equal(t, "sq = Square(side_length=4)\n", out)
	})

	t.Run("rectangle axes are independent", func(t *testing.T) {
		src := "r = Rectangle(width=4, height=2)\n"
		out, changed := SetHeight(parse(t, src), "r", 5)
		require.True(t, changed)
		assert.Equal(t, "r = Rectangle(width=4, height=5)\n", out)
	})

	t.Run("circle interprets either axis as a diameter", func(t *testing.T) {
		src := "c = Circle(radius=1)\n"
		out, changed := SetWidth(parse(t, src), "c", 4)
		require.True(t, changed)
		assert.Equal(t, "c = Circle(radius=2)\n", out)
	})

	t.Run("absent keyword is appended with a comma", func(t *testing.T) {
		src := "sq = Square(color=RED)\n"
		out, changed := SetWidth(parse(t, src), "sq", 3)
		require.True(t, changed)
		assert.Equal(t, "sq = Square(color=RED, side_length=3)\n", out)
	})

	t.Run("empty argument list gets no comma", func(t *testing.T) {
		src := "sq = Square()\n"
		out, changed := SetWidth(parse(t, src), "sq", 3)
		require.True(t, changed)
		assert.Equal(t, "sq = Square(side_length=3)\n", out)
	})
}

func TestSetStyle(t *testing.T) {
	t.Run("font size rewritten when present", func(t *testing.T) {
		src := "t = Text(\"hi\", font_size=36)\n"
		out, changed := SetFontSize(parse(t, src), "t", 48)
		require.True(t, changed)
		assert.Equal(t, "t = Text(\"hi\", font_size=48)\n", out)
	})

	t.Run("absent font size is a no-op", func(t *testing.T) {
		src := "t = Text(\"hi\")\n"
		out, changed := SetFontSize(parse(t, src), "t", 48)
		assert.False(t, changed)
		assert.Equal(t, src, out)
	})

	t.Run("named color rewritten bare", func(t *testing.T) {
		src := "sq = Square(color=RED)\n"
		out, changed := SetColor(parse(t, src), "sq", "BLUE")
		require.True(t, changed)
		assert.Equal(t, "sq = Square(color=BLUE)\n", out)
	})

	t.Run("hex color rewritten quoted", func(t *testing.T) {
		src := "sq = Square(color=RED)\n"
		out, changed := SetColor(parse(t, src), "sq", "#1F2D3C")
		require.True(t, changed)
		assert.Equal(t, "sq = Square(color=\"#1F2D3C\")\n", out)
	})
}

func TestUnknownObjectIsNoOp(t *testing.T) {
	src := "sq = Square(side_length=2)\n"
	scene := parse(t, src)

	out, changed := SetPosition(scene, "ghost", [3]float64{1, 1, 1})
	assert.False(t, changed)
	assert.Equal(t, src, out)
}
