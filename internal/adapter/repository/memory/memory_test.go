package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard/finboard-backend/internal/domain"
)

func newPortfolio(name string, createdAt time.Time) *domain.Portfolio {
	return &domain.Portfolio{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: createdAt,
	}
}

func newHolding(portfolioID uuid.UUID, symbol string) *domain.Holding {
	return &domain.Holding{
		ID:            uuid.New(),
		PortfolioID:   portfolioID,
		Symbol:        symbol,
		Name:          symbol,
		AssetType:     domain.AssetTypeCrypto,
		Quantity:      decimal.NewFromInt(1),
		PurchasePrice: decimal.NewFromInt(100),
		PurchaseDate:  time.Now(),
	}
}

func TestPortfolioRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	portfolios, _ := NewRepositories()

	older := newPortfolio("Older", time.Now().Add(-time.Hour))
	newer := newPortfolio("Newer", time.Now())
	require.NoError(t, portfolios.Create(ctx, older))
	require.NoError(t, portfolios.Create(ctx, newer))

	got, err := portfolios.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Older", got.Name)

	list, err := portfolios.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Newer", list[0].Name, "most recently created first")
}

func TestPortfolioRepository_GetMissing(t *testing.T) {
	portfolios, _ := NewRepositories()

	_, err := portfolios.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)

	err = portfolios.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)
}

func TestPortfolioRepository_DeleteCascadesToHoldings(t *testing.T) {
	ctx := context.Background()
	portfolios, holdings := NewRepositories()

	keep := newPortfolio("Keep", time.Now())
	drop := newPortfolio("Drop", time.Now())
	require.NoError(t, portfolios.Create(ctx, keep))
	require.NoError(t, portfolios.Create(ctx, drop))

	require.NoError(t, holdings.Create(ctx, newHolding(keep.ID, "BTC")))
	require.NoError(t, holdings.Create(ctx, newHolding(drop.ID, "ETH")))
	require.NoError(t, holdings.Create(ctx, newHolding(drop.ID, "SOL")))

	require.NoError(t, portfolios.Delete(ctx, drop.ID))

	all, err := holdings.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].PortfolioID)
}

func TestHoldingRepository_ListByPortfolioFilters(t *testing.T) {
	ctx := context.Background()
	_, holdings := NewRepositories()

	a := uuid.New()
	b := uuid.New()
	require.NoError(t, holdings.Create(ctx, newHolding(a, "BTC")))
	require.NoError(t, holdings.Create(ctx, newHolding(b, "ETH")))

	got, err := holdings.ListByPortfolio(ctx, a)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BTC", got[0].Symbol)
}

func TestHoldingRepository_Delete(t *testing.T) {
	ctx := context.Background()
	_, holdings := NewRepositories()

	h := newHolding(uuid.New(), "BTC")
	require.NoError(t, holdings.Create(ctx, h))
	require.NoError(t, holdings.Delete(ctx, h.ID))
	assert.ErrorIs(t, holdings.Delete(ctx, h.ID), domain.ErrHoldingNotFound)
}

func TestRepositories_ReturnClones(t *testing.T) {
	// Mutating a returned entity must not leak back into the store.
	ctx := context.Background()
	portfolios, _ := NewRepositories()

	p := newPortfolio("Original", time.Now())
	require.NoError(t, portfolios.Create(ctx, p))

	got, err := portfolios.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := portfolios.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}
