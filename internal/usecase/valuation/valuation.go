package valuation

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
)

// HoldingValuation is the valuation of a single holding
type HoldingValuation struct {
	Holding      *domain.Holding
	CurrentPrice decimal.Decimal
	PriceSource  domain.QuoteSource
	// StalePrice is true when the snapshot had no quote for the symbol and
	// the purchase price was used instead. A stale-but-known price beats no
	// price; the holding is never shown as valueless because a refresh
	// failed.
	StalePrice   bool
	MarketValue  decimal.Decimal
	CostBasis    decimal.Decimal
	Gain         decimal.Decimal
	GainPercent  decimal.Decimal
}

// Result is the portfolio-level valuation.
// Invariants: TotalValue = sum of MarketValue, TotalGain = TotalValue -
// TotalCost, and every GainPercent is 0 when its cost basis is 0 (never
// undefined).
type Result struct {
	PerHolding       []HoldingValuation
	TotalValue       decimal.Decimal
	TotalCost        decimal.Decimal
	TotalGain        decimal.Decimal
	TotalGainPercent decimal.Decimal
}

// Aggregate values the selected portfolio's holdings against a price
// snapshot. Pure: no side effects, no network access, deterministic for the
// same inputs.
// Logic:
//  1. Filter to holdings of the selected portfolio only. Holdings from
//     other portfolios are excluded even when present in the input set
//     (anything else silently cross-contaminates portfolios).
//  2. Per holding: currentPrice = snapshot price if available, else the
//     purchase price; marketValue = quantity * currentPrice; costBasis =
//     quantity * purchasePrice; gain = marketValue - costBasis.
//  3. Totals by summation over the filtered set.
//
// An empty selection (uuid.Nil, or no matching holdings) yields a
// zero-valued result, never an error. Reordering the input never changes
// the result: per-holding rows are sorted by holding ID.
func Aggregate(portfolioID uuid.UUID, holdings []*domain.Holding, snapshot *domain.PriceSnapshot) Result {
	result := Result{
		PerHolding:       []HoldingValuation{},
		TotalValue:       decimal.Zero,
		TotalCost:        decimal.Zero,
		TotalGain:        decimal.Zero,
		TotalGainPercent: decimal.Zero,
	}

	if portfolioID == uuid.Nil {
		return result
	}

	for _, holding := range holdings {
		if holding.PortfolioID != portfolioID {
			continue
		}

		row := valueHolding(holding, snapshot)
		result.PerHolding = append(result.PerHolding, row)
		result.TotalValue = result.TotalValue.Add(row.MarketValue)
		result.TotalCost = result.TotalCost.Add(row.CostBasis)
	}

	sort.Slice(result.PerHolding, func(i, j int) bool {
		return result.PerHolding[i].Holding.ID.String() < result.PerHolding[j].Holding.ID.String()
	})

	result.TotalGain = result.TotalValue.Sub(result.TotalCost)
	result.TotalGainPercent = gainPercent(result.TotalGain, result.TotalCost)

	return result
}

// valueHolding computes one holding's row, falling back to the purchase
// price when the snapshot has no quote for the symbol
func valueHolding(holding *domain.Holding, snapshot *domain.PriceSnapshot) HoldingValuation {
	row := HoldingValuation{Holding: holding}

	if quote, ok := snapshot.Quote(holding.Symbol); ok {
		row.CurrentPrice = quote.Price
		row.PriceSource = quote.Source
	} else {
		row.CurrentPrice = holding.PurchasePrice
		row.StalePrice = true
	}

	row.MarketValue = holding.Quantity.Mul(row.CurrentPrice)
	row.CostBasis = holding.CostBasis()
	row.Gain = row.MarketValue.Sub(row.CostBasis)
	row.GainPercent = gainPercent(row.Gain, row.CostBasis)

	return row
}

// gainPercent guards the zero-cost case: a gain over a zero cost basis is
// reported as 0, never as a division error
func gainPercent(gain, cost decimal.Decimal) decimal.Decimal {
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return gain.Div(cost).Mul(decimal.NewFromInt(100))
}
