package domain

import (
	"context"

	"github.com/google/uuid"
)

// PortfolioRepository defines the interface for portfolio persistence operations
type PortfolioRepository interface {
	// GetByID retrieves a portfolio by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)

	// List retrieves all portfolios, most recently created first
	List(ctx context.Context) ([]*Portfolio, error)

	// Create creates a new portfolio
	Create(ctx context.Context, portfolio *Portfolio) error

	// Delete removes a portfolio and, via cascade, all of its holdings
	Delete(ctx context.Context, id uuid.UUID) error
}

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// ListByPortfolio retrieves the holdings of one portfolio,
	// most recently created first
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*Holding, error)

	// ListAll retrieves every holding across all portfolios.
	// Used to collect the symbol set of interest for price refresh.
	ListAll(ctx context.Context) ([]*Holding, error)

	// Create creates a new holding
	Create(ctx context.Context, holding *Holding) error

	// Delete removes a holding by its ID
	Delete(ctx context.Context, id uuid.UUID) error
}
