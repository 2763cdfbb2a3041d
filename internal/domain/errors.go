package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced across the usecase boundary.
// Per-symbol and per-market price failures are represented as data
// (unavailable quotes, market failure markers), never as errors thrown past
// the planner/aggregator; only these hard precondition failures reach the
// caller.
var (
	ErrInvalidAmount     = errors.New("investment amount must be a positive number")
	ErrUnknownRiskTier   = errors.New("risk tier must be low, medium, or high")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrHoldingNotFound   = errors.New("holding not found")
)

// MarketUnavailableError records that an entire market's price fetch failed.
// The plan for the other market is still returned; this error travels inside
// the plan result as data, not as the operation's error.
type MarketUnavailableError struct {
	Market Market
	Err    error
}

func (e *MarketUnavailableError) Error() string {
	return fmt.Sprintf("price source unavailable for %s market: %v", e.Market, e.Err)
}

func (e *MarketUnavailableError) Unwrap() error {
	return e.Err
}
