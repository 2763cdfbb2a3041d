package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// RiskTier is a coarse user-selected category that deterministically selects
// an instrument basket and an equity/crypto budget split
type RiskTier string

const (
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

// Instrument identifies a single tradable entry in a basket.
// ID is the identifier used against the price source (Yahoo symbol for
// equities, CoinGecko id for cryptos); Name is the user-facing label.
type Instrument struct {
	ID   string
	Name string
}

// RiskProfile is the fixed mapping from a risk tier to its instrument
// baskets and budget split fractions. The mapping is immutable and driven
// purely by the tier; there is no persisted state behind it.
type RiskProfile struct {
	Tier         RiskTier
	StockBasket  []Instrument
	CryptoBasket []Instrument
	StockShare   decimal.Decimal
	CryptoShare  decimal.Decimal
}

// Validate ensures the profile adheres to domain rules
// CRITICAL: the equity and crypto share fractions must sum to exactly 1
func (p *RiskProfile) Validate() error {
	if len(p.StockBasket) == 0 {
		return errors.New("risk profile must have a non-empty stock basket")
	}

	if len(p.CryptoBasket) == 0 {
		return errors.New("risk profile must have a non-empty crypto basket")
	}

	if !p.StockShare.Add(p.CryptoShare).Equal(decimal.NewFromInt(1)) {
		return errors.New("stock share and crypto share must sum to exactly 1")
	}

	return nil
}

var riskProfiles = map[RiskTier]RiskProfile{
	RiskTierLow: {
		Tier: RiskTierLow,
		StockBasket: []Instrument{
			stockInstrument("RELIANCE.NS"),
			stockInstrument("HDFCBANK.NS"),
			stockInstrument("TCS.NS"),
		},
		CryptoBasket: []Instrument{
			cryptoInstrument("bitcoin"),
			cryptoInstrument("ethereum"),
		},
		StockShare:  decimal.RequireFromString("0.7"),
		CryptoShare: decimal.RequireFromString("0.3"),
	},
	RiskTierMedium: {
		Tier: RiskTierMedium,
		StockBasket: []Instrument{
			stockInstrument("INFY.NS"),
			stockInstrument("ICICIBANK.NS"),
			stockInstrument("TCS.NS"),
		},
		CryptoBasket: []Instrument{
			cryptoInstrument("bitcoin"),
			cryptoInstrument("ethereum"),
			cryptoInstrument("binancecoin"),
		},
		StockShare:  decimal.RequireFromString("0.6"),
		CryptoShare: decimal.RequireFromString("0.4"),
	},
	RiskTierHigh: {
		Tier: RiskTierHigh,
		StockBasket: []Instrument{
			stockInstrument("ADANIENT.NS"),
			stockInstrument("TATAMOTORS.NS"),
			stockInstrument("ZOMATO.NS"),
		},
		CryptoBasket: []Instrument{
			cryptoInstrument("bitcoin"),
			cryptoInstrument("ethereum"),
			cryptoInstrument("solana"),
		},
		StockShare:  decimal.RequireFromString("0.5"),
		CryptoShare: decimal.RequireFromString("0.5"),
	},
}

// TierProfile returns the fixed risk profile for a tier.
// Returns ErrUnknownRiskTier for tiers outside {low, medium, high}.
func TierProfile(tier RiskTier) (RiskProfile, error) {
	profile, ok := riskProfiles[tier]
	if !ok {
		return RiskProfile{}, ErrUnknownRiskTier
	}
	return profile, nil
}

// RiskTiers returns all known tiers in ascending risk order
func RiskTiers() []RiskTier {
	return []RiskTier{RiskTierLow, RiskTierMedium, RiskTierHigh}
}

// stockInstrument builds an equity instrument from its Yahoo symbol.
// The display name drops the exchange suffix (e.g. "RELIANCE.NS" -> "RELIANCE").
func stockInstrument(symbol string) Instrument {
	name := symbol
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		name = symbol[:i]
	}
	return Instrument{ID: symbol, Name: name}
}

// cryptoInstrument builds a crypto instrument from its CoinGecko id.
// The display name is the capitalized id (e.g. "bitcoin" -> "Bitcoin").
func cryptoInstrument(id string) Instrument {
	name := id
	if len(id) > 0 {
		name = strings.ToUpper(id[:1]) + id[1:]
	}
	return Instrument{ID: id, Name: name}
}
