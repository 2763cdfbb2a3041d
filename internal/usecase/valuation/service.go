package valuation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finboard/finboard-backend/internal/domain"
)

// SnapshotProvider supplies the latest materialized price snapshot.
// Satisfied by pricerefresh.Refresher; tests inject fixed snapshots.
type SnapshotProvider interface {
	Current() *domain.PriceSnapshot
}

// Service values portfolios against the latest price snapshot
type Service struct {
	HoldingRepo domain.HoldingRepository
	Snapshots   SnapshotProvider
}

// NewService creates a new valuation Service instance
func NewService(holdingRepo domain.HoldingRepository, snapshots SnapshotProvider) *Service {
	return &Service{
		HoldingRepo: holdingRepo,
		Snapshots:   snapshots,
	}
}

// ValuePortfolio loads the portfolio's holdings and aggregates them against
// the current snapshot. Valuation is always computed from whatever snapshot
// and holdings set happen to be current at call time (eventual, not strict,
// consistency).
func (s *Service) ValuePortfolio(ctx context.Context, portfolioID uuid.UUID) (Result, error) {
	if portfolioID == uuid.Nil {
		return Aggregate(portfolioID, nil, nil), nil
	}

	holdings, err := s.HoldingRepo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list holdings: %w", err)
	}

	return Aggregate(portfolioID, holdings, s.Snapshots.Current()), nil
}
