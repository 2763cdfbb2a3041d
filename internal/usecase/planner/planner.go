package planner

import (
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
)

// Entry is a single suggested investment in a plan
type Entry struct {
	InstrumentID   string
	Name           string
	Amount         decimal.Decimal // Amount to invest, whole currency units
	ReferencePrice decimal.Decimal // Only meaningful when PriceAvailable
	PriceAvailable bool
	PriceSource    domain.QuoteSource
}

// Result holds the per-market plans. StockErr/CryptoErr are set (as
// *domain.MarketUnavailableError) when that market's entire price fetch
// failed; the other market's plan is still populated. They are result data,
// not operation failures.
type Result struct {
	StockPlan  []Entry
	CryptoPlan []Entry
	StockErr   error
	CryptoErr  error
}

// Plan calculates the suggested split of a cash amount across the risk
// tier's instrument baskets, priced from the given snapshot.
// Logic:
//  1. Reject non-positive amounts (hard precondition, domain.ErrInvalidAmount)
//  2. Look up the tier's fixed baskets and budget split fractions
//  3. Per market: sub-budget = amount * share, divided evenly across the
//     basket with each instrument's amount floored to whole currency units
//  4. Attach each instrument's snapshot price; a missing price keeps the
//     entry with an unavailable reference price, it never fails the plan
//
// The truncation remainder is deliberately not redistributed: the total
// invested per market may fall short of the nominal sub-budget by fewer than
// basket-size currency units.
//
// The planner consumes whatever snapshot it is given and never fetches or
// retries; refresh policy lives in the pricerefresh package.
func Plan(amount decimal.Decimal, tier domain.RiskTier, snapshot *domain.PriceSnapshot) (*Result, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	profile, err := domain.TierProfile(tier)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	if ferr := snapshot.MarketErr(domain.MarketStock); ferr != nil {
		result.StockErr = &domain.MarketUnavailableError{Market: domain.MarketStock, Err: ferr}
	} else {
		result.StockPlan = marketPlan(amount, profile.StockShare, profile.StockBasket, snapshot)
	}

	if ferr := snapshot.MarketErr(domain.MarketCrypto); ferr != nil {
		result.CryptoErr = &domain.MarketUnavailableError{Market: domain.MarketCrypto, Err: ferr}
	} else {
		result.CryptoPlan = marketPlan(amount, profile.CryptoShare, profile.CryptoBasket, snapshot)
	}

	return result, nil
}

// marketPlan divides one market's sub-budget evenly across its basket
func marketPlan(amount, share decimal.Decimal, basket []domain.Instrument, snapshot *domain.PriceSnapshot) []Entry {
	subBudget := amount.Mul(share)
	perInstrument := subBudget.Div(decimal.NewFromInt(int64(len(basket)))).Floor()

	entries := make([]Entry, 0, len(basket))
	for _, instrument := range basket {
		entry := Entry{
			InstrumentID: instrument.ID,
			Name:         instrument.Name,
			Amount:       perInstrument,
		}

		if quote, ok := snapshot.Quote(instrument.ID); ok {
			entry.ReferencePrice = quote.Price
			entry.PriceAvailable = true
			entry.PriceSource = quote.Source
		}

		entries = append(entries, entry)
	}

	return entries
}
