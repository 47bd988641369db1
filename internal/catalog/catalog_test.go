package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()

	sq, ok := tbl.Lookup("Square")
	require.True(t, ok)
	assert.Equal(t, CategorySquare, sq.Category)
	assert.Equal(t, 2.0, sq.DefaultSide)

	txt, ok := tbl.Lookup("MathTex")
	require.True(t, ok)
	assert.True(t, txt.TextLike())

	grp, ok := tbl.Lookup("VGroup")
	require.True(t, ok)
	assert.True(t, grp.GroupLike())
	assert.False(t, grp.Scalable())

	ln, ok := tbl.Lookup("Line")
	require.True(t, ok)
	assert.True(t, ln.AbsoluteCoords())

	dot, ok := tbl.Lookup("Dot")
	require.True(t, ok)
	assert.True(t, dot.AbsoluteCoords())

	_, ok = tbl.Lookup("Nonsense")
	assert.False(t, ok)
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := `constructors:
  - name: Hexagon
    category: other
  - name: Square
    category: square
    default_side: 3
  - name: Badge
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	tbl, err := LoadOverride(path)
	require.NoError(t, err)

	hex, ok := tbl.Lookup("Hexagon")
	require.True(t, ok)
	assert.Equal(t, CategoryOther, hex.Category)

	// Overrides replace built-in entries wholesale.
	sq, ok := tbl.Lookup("Square")
	require.True(t, ok)
	assert.Equal(t, 3.0, sq.DefaultSide)

	// A missing category falls back to other.
	badge, ok := tbl.Lookup("Badge")
	require.True(t, ok)
	assert.Equal(t, CategoryOther, badge.Category)

	t.Run("empty path yields the defaults", func(t *testing.T) {
		tbl, err := LoadOverride("")
		require.NoError(t, err)
		_, ok := tbl.Lookup("Circle")
		assert.True(t, ok)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadOverride(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}
