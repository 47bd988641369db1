package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenepatch/internal/catalog"
)

const sampleScene = `from manim import *
import numpy as np

class Demo(Scene):
    def construct(self):
        p = [0, 0, 0]
        q = np.array([1, 2])
        sq = Square(side_length=2, color=BLUE)
        circ = Circle(radius=1).move_to(p)
        label = Text("hi", font_size=36).next_to(sq, UP)
        dot = Dot()
        dot.move_to(q)
        big = Rectangle(width=6, height=3).scale(0.5)
        g = VGroup(sq, circ)
        g.add(label)
        self.play(Create(sq), run_time=2)
        self.play(FadeIn(g))
        self.play(sq.animate.shift(RIGHT))
`

func TestExtractObjects(t *testing.T) {
	scene := Parse(sampleScene, nil)

	require.Len(t, scene.Objects, 6)

	sq := scene.Lookup("sq")
	require.NotNil(t, sq)
	assert.Equal(t, "Square", sq.Type)
	assert.Equal(t, 2.0, sq.SideLength)
	assert.Equal(t, 2.0, sq.OrigSideLength)
	assert.Equal(t, "BLUE", sq.Color)

	big := scene.Lookup("big")
	require.NotNil(t, big)
	assert.Equal(t, 6.0, big.Width)
	assert.Equal(t, 3.0, big.Height)
	assert.Equal(t, 0.5, big.Scale)

	label := scene.Lookup("label")
	require.NotNil(t, label)
	assert.True(t, label.TextLike)
	assert.Equal(t, 36.0, label.FontSize)
	require.NotNil(t, label.ChainedPos)
	assert.Equal(t, "next_to", label.ChainedPos.Method)
}

func TestGeometryDefaults(t *testing.T) {
	scene := Parse("r = Rectangle()\nc = Circle()\n", nil)

	r := scene.Lookup("r")
	require.NotNil(t, r)
	assert.Equal(t, 4.0, r.Width)
	assert.Equal(t, 2.0, r.Height)

	c := scene.Lookup("c")
	require.NotNil(t, c)
	assert.Equal(t, 1.0, c.Radius)
}

func TestPositionVariables(t *testing.T) {
	scene := Parse(sampleScene, nil)

	p := scene.Vars["p"]
	require.NotNil(t, p)
	assert.Equal(t, [3]float64{0, 0, 0}, p.Value)
	assert.False(t, p.ArrayForm)

	// Missing third coordinate defaults to 0.
	q := scene.Vars["q"]
	require.NotNil(t, q)
	assert.Equal(t, [3]float64{1, 2, 0}, q.Value)
	assert.True(t, q.ArrayForm)

	circ := scene.Lookup("circ")
	require.NotNil(t, circ)
	assert.Equal(t, PosVariable, circ.PositionSource)
	assert.Equal(t, "p", circ.PosVar)
	assert.Equal(t, [3]float64{0, 0, 0}, circ.Position)
	assert.True(t, circ.PosVarPrivate)

	dot := scene.Lookup("dot")
	require.NotNil(t, dot)
	assert.Equal(t, "q", dot.PosVar)
	assert.Equal(t, [3]float64{1, 2, 0}, dot.Position)
}

func TestPrivacy(t *testing.T) {
	t.Run("two referencing objects make a variable shared", func(t *testing.T) {
		src := "p = [0, 0, 0]\n" +
			"a = Circle(radius=1).move_to(p)\n" +
			"b = Dot()\n" +
			"b.move_to(p)\n"
		scene := Parse(src, nil)

		v := scene.Vars["p"]
		require.NotNil(t, v)
		assert.Equal(t, 2, v.RefCount)
		assert.False(t, v.Private)
		assert.False(t, scene.Lookup("a").PosVarPrivate)
	})

	t.Run("extra textual occurrences make a variable shared", func(t *testing.T) {
		src := "p = [0, 0, 0]\n" +
			"a = Circle(radius=1).move_to(p)\n" +
			"print(p, p)\n"
		scene := Parse(src, nil)

		v := scene.Vars["p"]
		require.NotNil(t, v)
		assert.Equal(t, 1, v.RefCount)
		assert.False(t, v.Private)
	})
}

func TestGroups(t *testing.T) {
	scene := Parse(sampleScene, nil)

	g := scene.Lookup("g")
	require.NotNil(t, g)
	assert.True(t, g.GroupLike)
	assert.Equal(t, []string{"sq", "circ", "label"}, g.Children)
	assert.Equal(t, []string{"sq", "circ", "label"}, g.Descendants)
	assert.False(t, g.ChildrenAbsolute)

	assert.Equal(t, "g", scene.Lookup("sq").Parent)
	assert.Equal(t, "g", scene.Lookup("label").Parent)
}

func TestNestedGroups(t *testing.T) {
	src := `a = Square(side_length=1)
b = Circle(radius=1)
inner = VGroup(a, b)
ln = Line([0, 0, 0], [1, 0, 0])
outer = VGroup(inner, ln)
`
	scene := Parse(src, nil)

	outer := scene.Lookup("outer")
	require.NotNil(t, outer)
	assert.Equal(t, []string{"inner", "ln"}, outer.Children)
	assert.Equal(t, []string{"inner", "a", "b", "ln"}, outer.Descendants)
	assert.True(t, outer.ChildrenAbsolute)

	inner := scene.Lookup("inner")
	require.NotNil(t, inner)
	assert.False(t, inner.ChildrenAbsolute)
}

func TestCyclicGroupsTerminate(t *testing.T) {
	src := `a = VGroup()
b = VGroup(a)
a.add(b)
`
	scene := Parse(src, nil)

	a := scene.Lookup("a")
	require.NotNil(t, a)
	// The closure is bounded by the visited set; no hang, no panic.
	assert.Contains(t, a.Descendants, "b")
}

func TestExtractAnimations(t *testing.T) {
	scene := Parse(sampleScene, nil)
	require.Len(t, scene.Animations, 3)

	first := scene.Animations[0]
	assert.Equal(t, "Create", first.Kind)
	assert.Equal(t, []string{"sq"}, first.Targets)
	assert.Equal(t, 16, first.Line)

	second := scene.Animations[1]
	assert.Equal(t, "FadeIn", second.Kind)
	assert.Equal(t, []string{"g"}, second.Targets)
	assert.Equal(t, []string{"sq", "circ", "label"}, second.Expanded)

	third := scene.Animations[2]
	assert.Equal(t, catalog.KindAnimateChain, third.Kind)
	assert.Equal(t, []string{"sq"}, third.Targets)
}

func TestMalformedInputIsSilentlySkipped(t *testing.T) {
	src := "sq = Square(side_length=2\ncirc = Circle(radius=1)\nwhat = Nonsense(1)\n"
	scene := Parse(src, nil)

	// The unbalanced Square is dropped, the Circle survives, the unknown
	// type is ignored.
	assert.Nil(t, scene.Lookup("sq"))
	assert.NotNil(t, scene.Lookup("circ"))
	assert.Nil(t, scene.Lookup("what"))
}
