package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf, ServiceName: "move-estimator"})

	logger.WithOperation("estimate").WithQuote("q-1").Info().Int("entries", 3).Msg("Quote built")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "move-estimator", line["service"])
	assert.Equal(t, "estimate", line["operation"])
	assert.Equal(t, "q-1", line["quote_id"])
	assert.Equal(t, float64(3), line["entries"])
	assert.Equal(t, "Quote built", line["message"])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json", Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithRequest_EmptyIDKeepsLogger(t *testing.T) {
	logger := Nop()
	assert.Same(t, logger, logger.WithRequest(""))
	assert.NotSame(t, logger, logger.WithRequest("abc"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"warning", "warn"},
		{"off", "disabled"},
		{"bogus", "info"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, parseLevel(tc.in).String())
		})
	}
}

func TestWith_BuildsChildLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "info", Format: "json", Output: &buf})

	child := logger.With().Str("dictionary_source", "sqlite").Int("dictionary_size", 120).Logger()
	child.Info().Strs("unmatched", []string{"zorblax", "gizmo"}).Msg("Estimator ready")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sqlite", line["dictionary_source"])
	assert.Equal(t, float64(120), line["dictionary_size"])
	assert.Equal(t, []interface{}{"zorblax", "gizmo"}, line["unmatched"])
}
