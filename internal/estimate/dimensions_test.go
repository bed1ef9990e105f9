package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubicFootInCubicCm = 28316.846592

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		input  string
		volume float64
		unit   string
		label  string
	}{
		{"48x24x72", 48, "", "48x24x72"},
		{"160x60x50 cm", 480000 / cubicFootInCubicCm, "cm", "160x60x50 cm"},
		{"160 × 60 × 50cm", 480000 / cubicFootInCubicCm, "cm", "160x60x50 cm"},
		{"100 by 50 by 40 cm", 200000 / cubicFootInCubicCm, "cm", "100x50x40 cm"},
		{"6ft x 3ft x 2ft", 36, "ft", "6x3x2 ft"},
		{`24" x 24" x 36"`, 12, "in", "24x24x36 in"},
		{"24 x 24 x 36 inches", 12, "in", "24x24x36 in"},
		{"1.5 x 2 x 3 ft", 9, "ft", "1.5x2x3 ft"},
		{"2 x 1 x 1 m", 2 / 0.028316846592, "m", "2x1x1 m"},
		{"600x400x300mm", 72000000 / (cubicFootInCubicCm * 1000), "mm", "600x400x300 mm"},
		{"48x24x72 mattress", 48, "", "48x24x72"},
		{"160cm x 60in x 50", 160 * 60 * 2.54 * 50 / cubicFootInCubicCm, "cm", "160cm x 60in x 50cm"},
		{"2ft x 24 x 12in", 4, "in", "2ft x 24in x 12in"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			d, ok := ParseDimensions(tc.input)
			require.True(t, ok)
			assert.InDelta(t, tc.volume, d.Volume, 0.001)
			assert.Equal(t, tc.unit, d.Unit)
			assert.Equal(t, tc.label, d.Label())
		})
	}
}

func TestParseDimensions_LeavesLeadingMultiplier(t *testing.T) {
	in := "2x 160x60x50 cm"
	d, ok := ParseDimensions(in)
	require.True(t, ok)
	assert.Equal(t, 3, d.Start)
	assert.Equal(t, len(in), d.End)
	assert.Equal(t, "2x ", in[:d.Start])
	assert.InDelta(t, 16.951, d.Volume, 0.001)
}

func TestParseDimensions_NoMatch(t *testing.T) {
	for _, in := range []string{"sofa", "2x4 plank", "sofa 3 seater", "wardrobe 2 door", "", "x by x by x"} {
		_, ok := ParseDimensions(in)
		assert.False(t, ok, in)
	}
}
