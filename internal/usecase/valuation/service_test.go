package valuation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finboard/finboard-backend/internal/domain"
)

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*domain.Holding, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) ListAll(ctx context.Context) ([]*domain.Holding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fixedSnapshots satisfies SnapshotProvider with a constant snapshot
type fixedSnapshots struct {
	snapshot *domain.PriceSnapshot
}

func (f *fixedSnapshots) Current() *domain.PriceSnapshot { return f.snapshot }

func TestValuePortfolio_UsesCurrentSnapshot(t *testing.T) {
	ctx := context.Background()
	portfolioID := uuid.New()

	holdings := []*domain.Holding{newHolding(portfolioID, "AAPL", 10, 100)}
	mockRepo := new(MockHoldingRepository)
	mockRepo.On("ListByPortfolio", ctx, portfolioID).Return(holdings, nil)

	snapshot := domain.NewPriceSnapshot(time.Now(), map[string]domain.Quote{
		"AAPL": {Price: decimal.NewFromInt(150), Source: domain.QuoteSourceLive, AsOf: time.Now()},
	}, nil)

	service := NewService(mockRepo, &fixedSnapshots{snapshot: snapshot})

	result, err := service.ValuePortfolio(ctx, portfolioID)
	require.NoError(t, err)
	require.Len(t, result.PerHolding, 1)
	assert.True(t, result.TotalValue.Equal(decimal.NewFromInt(1500)))
	mockRepo.AssertExpectations(t)
}

func TestValuePortfolio_NilSelectionIsZeroResult(t *testing.T) {
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo, &fixedSnapshots{})

	result, err := service.ValuePortfolio(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, result.PerHolding)
	assert.True(t, result.TotalValue.IsZero())

	// The repository must not even be consulted for an empty selection
	mockRepo.AssertNotCalled(t, "ListByPortfolio", mock.Anything, mock.Anything)
}

func TestValuePortfolio_RepositoryError(t *testing.T) {
	ctx := context.Background()
	portfolioID := uuid.New()

	mockRepo := new(MockHoldingRepository)
	mockRepo.On("ListByPortfolio", ctx, portfolioID).Return(nil, errors.New("db down"))

	service := NewService(mockRepo, &fixedSnapshots{})

	_, err := service.ValuePortfolio(ctx, portfolioID)
	assert.Error(t, err)
}
