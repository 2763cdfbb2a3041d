package pricesource

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
)

// simulatedVolatility bounds the per-cycle random perturbation: each
// synthesized price moves at most ±10% from the last known price.
const simulatedVolatility = 0.10

// Simulated is a stand-in price source for when no real market feed is
// available. It perturbs the last known price of each instrument by a
// bounded random factor; every quote it produces is flagged
// domain.QuoteSourceSimulated so consumers can tell it apart from a real
// feed. Instruments with no reference price are reported unavailable.
type Simulated struct {
	mu   sync.Mutex
	rng  *rand.Rand
	refs map[string]decimal.Decimal // Seed prices
	last map[string]decimal.Decimal // Latest synthesized price per instrument
}

// NewSimulated creates a simulated source seeded with reference prices.
// The rand source is injected so tests can force determinism.
func NewSimulated(refs map[string]decimal.Decimal, rng *rand.Rand) *Simulated {
	s := &Simulated{
		rng:  rng,
		refs: make(map[string]decimal.Decimal, len(refs)),
		last: make(map[string]decimal.Decimal, len(refs)),
	}
	for id, price := range refs {
		s.refs[id] = price
	}
	return s
}

// SetReference records (or replaces) the seed price for an instrument.
// Used when a new holding introduces a symbol the source has never priced.
func (s *Simulated) SetReference(id string, price decimal.Decimal) {
	if price.LessThanOrEqual(decimal.Zero) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[id] = price
}

// FetchPrices synthesizes a quote per known instrument. It never fails the
// market: an unknown instrument is simply absent from the result.
func (s *Simulated) FetchPrices(_ context.Context, ids []string) (map[string]domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	quotes := make(map[string]domain.Quote, len(ids))
	for _, id := range ids {
		base, ok := s.last[id]
		if !ok {
			base, ok = s.refs[id]
		}
		if !ok {
			continue
		}

		factor := 1 + (s.rng.Float64()*2-1)*simulatedVolatility
		price := base.Mul(decimal.NewFromFloat(factor))
		s.last[id] = price

		quotes[id] = domain.Quote{
			Price:  price,
			Source: domain.QuoteSourceSimulated,
			AsOf:   now,
		}
	}

	return quotes, nil
}
