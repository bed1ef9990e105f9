package estimate

import (
	"math"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

// Pricing is a linear price model: base + volume*rate + crew*rate.
type Pricing struct {
	Currency      string
	BaseFee       float64
	PerCubicFoot  float64
	PerCrewMember float64
}

// PricingFrom maps the pricing section of the service config.
func PricingFrom(c config.PricingConfig) Pricing {
	return Pricing{
		Currency:      c.Currency,
		BaseFee:       c.BaseFee,
		PerCubicFoot:  c.PerCubicFoot,
		PerCrewMember: c.PerCrewMember,
	}
}

// Enabled reports whether any multiplier is set.
func (p Pricing) Enabled() bool {
	return p.BaseFee != 0 || p.PerCubicFoot != 0 || p.PerCrewMember != 0
}

// Price returns nil when pricing is disabled. The amount is rounded to cents.
func (p Pricing) Price(volume float64, crew int) *PriceEstimate {
	if !p.Enabled() {
		return nil
	}
	amount := p.BaseFee + p.PerCubicFoot*volume + p.PerCrewMember*float64(crew)
	return &PriceEstimate{
		Currency: p.Currency,
		Amount:   math.Round(amount*100) / 100,
	}
}
