package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Market identifies which price feed an instrument belongs to
type Market string

const (
	MarketStock  Market = "stock"
	MarketCrypto Market = "crypto"
)

// QuoteSource distinguishes a real feed result from a synthesized one, so
// consumers and tests can tell them apart
type QuoteSource string

const (
	QuoteSourceLive      QuoteSource = "live"
	QuoteSourceSimulated QuoteSource = "simulated"
)

// Quote is a single priced instrument inside a snapshot
type Quote struct {
	Price  decimal.Decimal // Strictly positive
	Source QuoteSource
	AsOf   time.Time
}

// PriceSnapshot is an immutable point-in-time mapping of instrument
// identifiers to prices. An instrument the snapshot was asked about but has
// no quote for is unavailable; unavailable never degrades to a zero price.
// A new fetch cycle produces a new snapshot, it never mutates an old one.
type PriceSnapshot struct {
	takenAt time.Time
	quotes  map[string]Quote
	failed  map[Market]error // Markets whose entire fetch failed this cycle
}

// NewPriceSnapshot materializes a snapshot from one refresh cycle's results.
// Both maps are copied so later mutation by the caller cannot tear the
// snapshot.
func NewPriceSnapshot(takenAt time.Time, quotes map[string]Quote, failed map[Market]error) *PriceSnapshot {
	s := &PriceSnapshot{
		takenAt: takenAt,
		quotes:  make(map[string]Quote, len(quotes)),
		failed:  make(map[Market]error, len(failed)),
	}
	for id, q := range quotes {
		s.quotes[id] = q
	}
	for m, err := range failed {
		s.failed[m] = err
	}
	return s
}

// EmptyPriceSnapshot returns a snapshot with no quotes and no market
// failures. Useful as a starting point before the first refresh cycle.
func EmptyPriceSnapshot() *PriceSnapshot {
	return NewPriceSnapshot(time.Time{}, nil, nil)
}

// Quote returns the quote for an instrument identifier.
// The second return value is false when the price is unavailable.
// Safe to call on a nil snapshot.
func (s *PriceSnapshot) Quote(id string) (Quote, bool) {
	if s == nil {
		return Quote{}, false
	}
	q, ok := s.quotes[id]
	return q, ok
}

// MarketErr returns the failure recorded for a market in this cycle, or nil
// if the market's fetch succeeded (possibly with individual symbols missing).
func (s *PriceSnapshot) MarketErr(market Market) error {
	if s == nil {
		return nil
	}
	return s.failed[market]
}

// TakenAt returns when the snapshot's refresh cycle completed
func (s *PriceSnapshot) TakenAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.takenAt
}

// Len returns the number of available quotes
func (s *PriceSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.quotes)
}

// Quotes returns a copy of the available quotes keyed by instrument id
func (s *PriceSnapshot) Quotes() map[string]Quote {
	if s == nil {
		return map[string]Quote{}
	}
	out := make(map[string]Quote, len(s.quotes))
	for id, q := range s.quotes {
		out[id] = q
	}
	return out
}

// PriceSource fetches current prices for a set of instrument identifiers.
//
// A missing key in the returned map means that instrument's price is
// unavailable this cycle; a non-nil error means the whole fetch failed and
// no result for any instrument could be obtained. Implementations must never
// map a failure to a zero price.
type PriceSource interface {
	FetchPrices(ctx context.Context, ids []string) (map[string]Quote, error)
}
