package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

func TestPricing(t *testing.T) {
	assert.Nil(t, Pricing{Currency: "GBP"}.Price(265, 2))

	p := PricingFrom(config.PricingConfig{Currency: "GBP", BaseFee: 100, PerCubicFoot: 2, PerCrewMember: 50})
	require.True(t, p.Enabled())

	price := p.Price(265, 2)
	require.NotNil(t, price)
	assert.Equal(t, "GBP", price.Currency)
	assert.Equal(t, 730.0, price.Amount)

	price = Pricing{Currency: "EUR", PerCubicFoot: 1.111}.Price(3, 0)
	assert.Equal(t, 3.33, price.Amount)
}
