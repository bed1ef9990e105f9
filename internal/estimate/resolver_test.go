package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
)

func newTestResolver(t *testing.T, entries ...dictionary.Entry) *Resolver {
	t.Helper()
	d, err := dictionary.New(entries)
	require.NoError(t, err)
	return NewResolver(d, DefaultResolverConfig())
}

func TestResolver_ExactForEveryBuiltinKey(t *testing.T) {
	d := dictionary.Builtin()
	r := NewResolver(d, DefaultResolverConfig())
	require.Equal(t, d.Len(), r.Len())

	for _, e := range d.Entries() {
		m, ok := r.Resolve(e.Name)
		require.True(t, ok, e.Name)
		assert.Equal(t, e.Name, m.Key)
		assert.Equal(t, e.Volume, m.Volume)
		assert.Equal(t, LayerExact, m.Layer)
	}
}

func TestResolver_Layers(t *testing.T) {
	r := NewResolver(dictionary.Builtin(), DefaultResolverConfig())

	tests := []struct {
		phrase string
		key    string
		layer  Layer
	}{
		{"Sofa 3 Seater", "sofa 3 seater", LayerExact},
		{"sofa 3 seat", "sofa 3 seater", LayerContainment},
		{"old leather sofa", "sofa", LayerContainment},
		{"antique large mirror", "large mirror", LayerContainment},
		{"bedside", "bedside", LayerExact},
	}

	for _, tc := range tests {
		t.Run(tc.phrase, func(t *testing.T) {
			m, ok := r.Resolve(tc.phrase)
			require.True(t, ok)
			assert.Equal(t, tc.key, m.Key)
			assert.Equal(t, tc.layer, m.Layer)
		})
	}
}

func TestResolver_WordContainment(t *testing.T) {
	r := newTestResolver(t, dictionary.Entry{Name: "kitchen table", Volume: 35}, dictionary.Entry{Name: "table", Volume: 40})

	m, ok := r.Resolve("table for the kitchen")
	require.True(t, ok)
	assert.Equal(t, "table", m.Key, "whole-word containment runs first")

	r = newTestResolver(t, dictionary.Entry{Name: "kitchen table", Volume: 35})
	m, ok = r.Resolve("table for the kitchen")
	require.True(t, ok)
	assert.Equal(t, "kitchen table", m.Key)
	assert.Equal(t, LayerWordContainment, m.Layer)
}

func TestResolver_TokenOverlap(t *testing.T) {
	r := newTestResolver(t,
		dictionary.Entry{Name: "dining table", Volume: 60},
		dictionary.Entry{Name: "coffee table", Volume: 20},
	)

	m, ok := r.Resolve("old coffee thing")
	require.True(t, ok)
	assert.Equal(t, "coffee table", m.Key)
	assert.Equal(t, LayerTokenOverlap, m.Layer)
	assert.Equal(t, 1, m.Overlap)
}

func TestResolver_EditDistance(t *testing.T) {
	r := newTestResolver(t,
		dictionary.Entry{Name: "wardrobe", Volume: 80},
		dictionary.Entry{Name: "microwave", Volume: 8},
		dictionary.Entry{Name: "sofa", Volume: 90},
	)

	tests := []struct {
		phrase string
		key    string
		dist   int
		ok     bool
	}{
		{"wardobe", "wardrobe", 1, true},
		{"mircowave", "microwave", 2, true},
		{"sofq", "sofa", 1, true},
		{"sfoa", "", 0, false},
		{"xylophone", "", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.phrase, func(t *testing.T) {
			m, ok := r.Resolve(tc.phrase)
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.key, m.Key)
			assert.Equal(t, LayerEditDistance, m.Layer)
			assert.Equal(t, tc.dist, m.Distance)
		})
	}
}

func TestResolver_ShortWordsStayApart(t *testing.T) {
	onlyBin := newTestResolver(t, dictionary.Entry{Name: "bin", Volume: 2})
	_, ok := onlyBin.Resolve("bed")
	assert.False(t, ok, "bed must not resolve to bin")

	onlyBed := newTestResolver(t, dictionary.Entry{Name: "bed", Volume: 60})
	_, ok = onlyBed.Resolve("bin")
	assert.False(t, ok, "bin must not resolve to bed")

	both := newTestResolver(t, dictionary.Entry{Name: "bin", Volume: 2}, dictionary.Entry{Name: "bed", Volume: 60})
	m, ok := both.Resolve("bed")
	require.True(t, ok)
	assert.Equal(t, "bed", m.Key)
}

func TestResolver_ContainmentPrefersWordStart(t *testing.T) {
	r := newTestResolver(t,
		dictionary.Entry{Name: "filing cabinet 2", Volume: 20},
		dictionary.Entry{Name: "bin bag", Volume: 2},
	)
	m, ok := r.Resolve("bin")
	require.True(t, ok)
	assert.Equal(t, "bin bag", m.Key)
	assert.Equal(t, LayerContainment, m.Layer)

	m, ok = NewResolver(dictionary.Builtin(), DefaultResolverConfig()).Resolve("bin")
	require.True(t, ok)
	assert.Equal(t, "bin bag", m.Key)

	// A substring inside a word still matches when nothing starts with the phrase.
	r = newTestResolver(t, dictionary.Entry{Name: "filing cabinet 2", Volume: 20})
	m, ok = r.Resolve("bin")
	require.True(t, ok)
	assert.Equal(t, "filing cabinet 2", m.Key)
	assert.Equal(t, LayerContainment, m.Layer)
}

func TestResolver_ThresholdsAreConfigurable(t *testing.T) {
	d := dictionary.MustNew([]dictionary.Entry{{Name: "sofa", Volume: 90}})

	cfg := DefaultResolverConfig()
	cfg.ShortKeyMaxDistance = 2
	m, ok := NewResolver(d, cfg).Resolve("sfoa")
	require.True(t, ok)
	assert.Equal(t, "sofa", m.Key)

	seater := dictionary.MustNew([]dictionary.Entry{{Name: "sofa 3 seater", Volume: 120}})

	m, ok = NewResolver(seater, DefaultResolverConfig()).Resolve("sofa 3")
	require.True(t, ok)
	assert.Equal(t, LayerContainment, m.Layer)

	cfg = DefaultResolverConfig()
	cfg.MinContainmentLength = 10
	m, ok = NewResolver(seater, cfg).Resolve("sofa 3")
	require.True(t, ok)
	assert.Equal(t, LayerTokenOverlap, m.Layer)
	assert.Equal(t, 2, m.Overlap)
}

func TestResolver_EmptyInputs(t *testing.T) {
	r := NewResolver(nil, DefaultResolverConfig())
	_, ok := r.Resolve("sofa")
	assert.False(t, ok)

	r = NewResolver(dictionary.Builtin(), DefaultResolverConfig())
	_, ok = r.Resolve("  !! ")
	assert.False(t, ok)
}

func TestResolver_TiesKeepDictionaryOrder(t *testing.T) {
	r := newTestResolver(t,
		dictionary.Entry{Name: "desk large", Volume: 60},
		dictionary.Entry{Name: "desk small", Volume: 35},
	)
	m, ok := r.Resolve("desk")
	require.True(t, ok)
	assert.Equal(t, "desk large", m.Key)
}
