package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiagnostic(t *testing.T) {
	d, ok := ParseDiagnostic("SCENEPATCH_ERR@@42@@division by zero")
	require.True(t, ok)
	assert.Equal(t, 42, d.Line)
	assert.Equal(t, "division by zero", d.Message)

	t.Run("message may contain the delimiter", func(t *testing.T) {
		d, ok := ParseDiagnostic("SCENEPATCH_ERR@@7@@bad token @@ here")
		require.True(t, ok)
		assert.Equal(t, 7, d.Line)
		assert.Equal(t, "bad token @@ here", d.Message)
	})

	t.Run("surrounding whitespace tolerated", func(t *testing.T) {
		_, ok := ParseDiagnostic("  SCENEPATCH_ERR@@3@@boom\n")
		assert.True(t, ok)
	})

	t.Run("rejects ordinary output", func(t *testing.T) {
		for _, line := range []string{
			"Rendering frame 1/120",
			"SCENEPATCH_ERR@@notanumber@@x",
			"SCENEPATCH_ERR@@12",
			"",
		} {
			_, ok := ParseDiagnostic(line)
			assert.False(t, ok, line)
		}
	})
}

func TestParsePositionReport(t *testing.T) {
	r, ok := ParsePositionReport("@SCNPOS:circ@@[1.5, -2, 0]@@")
	require.True(t, ok)
	assert.Equal(t, "circ", r.Name)
	assert.Equal(t, [3]float64{1.5, -2, 0}, r.Pos)

	t.Run("two coordinates default z to zero", func(t *testing.T) {
		r, ok := ParsePositionReport("@SCNPOS:dot@@[1, 2]@@")
		require.True(t, ok)
		assert.Equal(t, [3]float64{1, 2, 0}, r.Pos)
	})

	t.Run("rejects malformed reports", func(t *testing.T) {
		for _, line := range []string{
			"@SCNPOS:@@[1, 2, 0]@@",
			"@SCNPOS:circ@@[1]@@",
			"@SCNPOS:circ@@[a, b, c]@@",
			"@SCNPOS:circ",
			"circ@@[1, 2, 0]@@",
		} {
			_, ok := ParsePositionReport(line)
			assert.False(t, ok, line)
		}
	})
}

func TestFormatPositionReportRoundTrip(t *testing.T) {
	line := FormatPositionReport("sq", [3]float64{2, -0.5, 1})
	assert.Equal(t, "@SCNPOS:sq@@[2, -0.5, 1]@@", line)

	r, ok := ParsePositionReport(line)
	require.True(t, ok)
	assert.Equal(t, "sq", r.Name)
	assert.Equal(t, [3]float64{2, -0.5, 1}, r.Pos)
}
