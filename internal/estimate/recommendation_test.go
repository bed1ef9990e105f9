package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

func TestBands_Recommend(t *testing.T) {
	bands := DefaultBands()
	require.NoError(t, bands.Validate())

	tests := []struct {
		volume  float64
		vehicle string
		crew    int
	}{
		{0, "Transit Van", 2},
		{200, "Transit Van", 2},
		{200.01, "Luton Van", 2},
		{265, "Luton Van", 2},
		{750, "Large Luton Van", 3},
		{1000, "Two Luton Vans", 3},
		{1400, "Two Large Luton Vans", 4},
		{1401, "Mixed Fleet", 4},
		{100000, "Mixed Fleet", 4},
	}

	for _, tc := range tests {
		rec := bands.Recommend(tc.volume)
		assert.Equal(t, tc.vehicle, rec.Vehicle, "volume %v", tc.volume)
		assert.Equal(t, tc.crew, rec.Crew, "volume %v", tc.volume)
	}
}

func TestBands_Monotonic(t *testing.T) {
	bands := DefaultBands()
	prev := bands.Recommend(0)
	for v := 0.0; v <= 3000; v += 12.5 {
		rec := bands.Recommend(v)
		assert.GreaterOrEqual(t, rec.Tier, prev.Tier, "volume %v", v)
		assert.GreaterOrEqual(t, rec.Crew, prev.Crew, "volume %v", v)
		prev = rec
	}
}

func TestBands_Validate(t *testing.T) {
	tests := []struct {
		name  string
		bands Bands
	}{
		{"empty", Bands{}},
		{"last band bounded", Bands{{MaxVolume: 100, Vehicle: "Van", Crew: 1}}},
		{"open band not last", Bands{{Vehicle: "Van", Crew: 1}, {MaxVolume: 100, Vehicle: "Truck", Crew: 2}}},
		{"bounds not ascending", Bands{{MaxVolume: 200, Vehicle: "Van", Crew: 1}, {MaxVolume: 200, Vehicle: "Luton", Crew: 2}, {Vehicle: "Fleet", Crew: 3}}},
		{"crew decreases", Bands{{MaxVolume: 200, Vehicle: "Van", Crew: 3}, {Vehicle: "Fleet", Crew: 2}}},
		{"no vehicle", Bands{{MaxVolume: 200, Vehicle: " ", Crew: 1}, {Vehicle: "Fleet", Crew: 2}}},
		{"no crew", Bands{{Vehicle: "Fleet"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.bands.Validate(), ErrInvalidBands)
		})
	}
}

func TestBandsFrom(t *testing.T) {
	bands, err := BandsFrom(config.DefaultConfig().Bands)
	require.NoError(t, err)
	assert.Equal(t, DefaultBands(), bands)

	_, err = BandsFrom([]config.BandConfig{{MaxVolume: 10, Vehicle: "Van", Crew: 1}})
	assert.ErrorIs(t, err, ErrInvalidBands)
}
