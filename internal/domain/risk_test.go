package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierProfile_AllTiersValid(t *testing.T) {
	one := decimal.NewFromInt(1)

	for _, tier := range RiskTiers() {
		profile, err := TierProfile(tier)
		require.NoError(t, err, "tier %s", tier)

		assert.NoError(t, profile.Validate())
		assert.True(t, profile.StockShare.Add(profile.CryptoShare).Equal(one),
			"tier %s shares must sum to exactly 1", tier)
		assert.NotEmpty(t, profile.StockBasket)
		assert.NotEmpty(t, profile.CryptoBasket)
	}
}

func TestTierProfile_UnknownTier(t *testing.T) {
	_, err := TierProfile(RiskTier("extreme"))
	assert.ErrorIs(t, err, ErrUnknownRiskTier)

	_, err = TierProfile(RiskTier(""))
	assert.ErrorIs(t, err, ErrUnknownRiskTier)
}

func TestTierProfile_BasketComposition(t *testing.T) {
	low, err := TierProfile(RiskTierLow)
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE.NS", low.StockBasket[0].ID)
	assert.Equal(t, "RELIANCE", low.StockBasket[0].Name, "display name drops the exchange suffix")
	assert.Equal(t, "bitcoin", low.CryptoBasket[0].ID)
	assert.Equal(t, "Bitcoin", low.CryptoBasket[0].Name)

	high, err := TierProfile(RiskTierHigh)
	require.NoError(t, err)
	assert.True(t, high.CryptoShare.GreaterThan(low.CryptoShare),
		"higher risk tiers allocate more to crypto")
}

func TestRiskProfile_Validate(t *testing.T) {
	profile, err := TierProfile(RiskTierMedium)
	require.NoError(t, err)

	broken := profile
	broken.StockBasket = nil
	assert.Error(t, broken.Validate())

	broken = profile
	broken.CryptoBasket = nil
	assert.Error(t, broken.Validate())

	broken = profile
	broken.StockShare = decimal.RequireFromString("0.61")
	err = broken.Validate()
	assert.Error(t, err)
	assert.Equal(t, "stock share and crypto share must sum to exactly 1", err.Error())
}
