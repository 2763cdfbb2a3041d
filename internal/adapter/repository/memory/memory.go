// Package memory provides in-memory implementations of the repository
// interfaces. Useful for tests or ephemeral runs where persistence is not
// required.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/finboard/finboard-backend/internal/domain"
)

// PortfolioRepository keeps portfolios in memory
type PortfolioRepository struct {
	mu    sync.RWMutex
	store map[uuid.UUID]*domain.Portfolio

	// holdings lets portfolio deletion cascade like the Postgres schema does
	holdings *HoldingRepository
}

var _ domain.PortfolioRepository = (*PortfolioRepository)(nil)

// HoldingRepository keeps holdings in memory
type HoldingRepository struct {
	mu    sync.RWMutex
	store map[uuid.UUID]*domain.Holding
}

var _ domain.HoldingRepository = (*HoldingRepository)(nil)

// NewRepositories creates a linked pair of in-memory repositories; linking
// is what makes portfolio deletion cascade to holdings
func NewRepositories() (*PortfolioRepository, *HoldingRepository) {
	holdings := &HoldingRepository{store: make(map[uuid.UUID]*domain.Holding)}
	portfolios := &PortfolioRepository{
		store:    make(map[uuid.UUID]*domain.Portfolio),
		holdings: holdings,
	}
	return portfolios, holdings
}

// GetByID retrieves a portfolio by its ID
func (r *PortfolioRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[id]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	clone := *p
	return &clone, nil
}

// List retrieves all portfolios, most recently created first
func (r *PortfolioRepository) List(_ context.Context) ([]*domain.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Portfolio, 0, len(r.store))
	for _, p := range r.store {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Create creates a new portfolio
func (r *PortfolioRepository) Create(_ context.Context, portfolio *domain.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *portfolio
	r.store[portfolio.ID] = &clone
	return nil
}

// Delete removes a portfolio and cascades to its holdings
func (r *PortfolioRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.store[id]; !ok {
		r.mu.Unlock()
		return domain.ErrPortfolioNotFound
	}
	delete(r.store, id)
	r.mu.Unlock()

	r.holdings.deleteByPortfolio(id)
	return nil
}

// ListByPortfolio retrieves the holdings of one portfolio, most recently
// purchased first
func (r *HoldingRepository) ListByPortfolio(_ context.Context, portfolioID uuid.UUID) ([]*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Holding, 0)
	for _, h := range r.store {
		if h.PortfolioID == portfolioID {
			clone := *h
			out = append(out, &clone)
		}
	}
	sortHoldings(out)
	return out, nil
}

// ListAll retrieves every holding across all portfolios
func (r *HoldingRepository) ListAll(_ context.Context) ([]*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Holding, 0, len(r.store))
	for _, h := range r.store {
		clone := *h
		out = append(out, &clone)
	}
	sortHoldings(out)
	return out, nil
}

// Create creates a new holding
func (r *HoldingRepository) Create(_ context.Context, holding *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *holding
	r.store[holding.ID] = &clone
	return nil
}

// Delete removes a holding by its ID
func (r *HoldingRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHoldingNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *HoldingRepository) deleteByPortfolio(portfolioID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, h := range r.store {
		if h.PortfolioID == portfolioID {
			delete(r.store, id)
		}
	}
}

func sortHoldings(holdings []*domain.Holding) {
	sort.Slice(holdings, func(i, j int) bool {
		if !holdings[i].PurchaseDate.Equal(holdings[j].PurchaseDate) {
			return holdings[i].PurchaseDate.After(holdings[j].PurchaseDate)
		}
		return holdings[i].ID.String() < holdings[j].ID.String()
	})
}
