package estimate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

// ErrInvalidBands is returned for a band table that cannot classify every volume.
var ErrInvalidBands = errors.New("invalid vehicle bands")

// Band is one row of the vehicle table. A MaxVolume of 0 marks the open-ended last band.
type Band struct {
	MaxVolume float64 `json:"maxVolume"`
	Vehicle   string  `json:"vehicle"`
	Crew      int     `json:"crew"`
}

// Open reports whether the band has no upper bound.
func (b Band) Open() bool {
	return b.MaxVolume == 0
}

// Bands is an ordered vehicle table.
type Bands []Band

// DefaultBands is the stock table, in cubic feet.
func DefaultBands() Bands {
	return Bands{
		{MaxVolume: 200, Vehicle: "Transit Van", Crew: 2},
		{MaxVolume: 500, Vehicle: "Luton Van", Crew: 2},
		{MaxVolume: 750, Vehicle: "Large Luton Van", Crew: 3},
		{MaxVolume: 1000, Vehicle: "Two Luton Vans", Crew: 3},
		{MaxVolume: 1400, Vehicle: "Two Large Luton Vans", Crew: 4},
		{Vehicle: "Mixed Fleet", Crew: 4},
	}
}

// BandsFrom converts and validates the configured table.
func BandsFrom(rows []config.BandConfig) (Bands, error) {
	bands := make(Bands, len(rows))
	for i, row := range rows {
		bands[i] = Band{MaxVolume: row.MaxVolume, Vehicle: row.Vehicle, Crew: row.Crew}
	}
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	return bands, nil
}

// Validate requires strictly ascending bounds, non-decreasing crew and exactly one
// open band at the end.
func (bs Bands) Validate() error {
	if len(bs) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidBands)
	}
	for i, b := range bs {
		last := i == len(bs)-1
		switch {
		case strings.TrimSpace(b.Vehicle) == "":
			return fmt.Errorf("%w: band %d has no vehicle", ErrInvalidBands, i)
		case b.Crew < 1:
			return fmt.Errorf("%w: band %d has crew %d", ErrInvalidBands, i, b.Crew)
		case b.MaxVolume < 0:
			return fmt.Errorf("%w: band %d has negative bound", ErrInvalidBands, i)
		case last && !b.Open():
			return fmt.Errorf("%w: last band must be open-ended", ErrInvalidBands)
		case !last && b.Open():
			return fmt.Errorf("%w: band %d is open-ended but not last", ErrInvalidBands, i)
		}
		if i == 0 {
			continue
		}
		prev := bs[i-1]
		if !last && b.MaxVolume <= prev.MaxVolume {
			return fmt.Errorf("%w: band %d bound %v does not exceed %v", ErrInvalidBands, i, b.MaxVolume, prev.MaxVolume)
		}
		if b.Crew < prev.Crew {
			return fmt.Errorf("%w: band %d crew decreases", ErrInvalidBands, i)
		}
	}
	return nil
}

// Recommend returns the first band whose bound is at least volume. Bounds are inclusive,
// so exactly 200 is still a Transit Van.
func (bs Bands) Recommend(volume float64) Recommendation {
	for i, b := range bs {
		if b.Open() || volume <= b.MaxVolume {
			return Recommendation{Vehicle: b.Vehicle, Crew: b.Crew, Tier: i}
		}
	}
	if len(bs) == 0 {
		return Recommendation{}
	}
	last := len(bs) - 1
	return Recommendation{Vehicle: bs[last].Vehicle, Crew: bs[last].Crew, Tier: last}
}
