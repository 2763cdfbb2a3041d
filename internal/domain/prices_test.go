package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceSnapshot_ImmutableAgainstSourceMaps(t *testing.T) {
	now := time.Now()
	quotes := map[string]Quote{
		"bitcoin": {Price: decimal.NewFromInt(5000000), Source: QuoteSourceLive, AsOf: now},
	}
	failed := map[Market]error{}

	snapshot := NewPriceSnapshot(now, quotes, failed)

	// Mutating the inputs after construction must not tear the snapshot
	quotes["bitcoin"] = Quote{Price: decimal.Zero}
	quotes["ethereum"] = Quote{Price: decimal.NewFromInt(1)}
	failed[MarketStock] = errors.New("late failure")

	q, ok := snapshot.Quote("bitcoin")
	require.True(t, ok)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(5000000)))

	_, ok = snapshot.Quote("ethereum")
	assert.False(t, ok)
	assert.NoError(t, snapshot.MarketErr(MarketStock))
	assert.Equal(t, 1, snapshot.Len())
}

func TestPriceSnapshot_UnavailableSymbol(t *testing.T) {
	snapshot := NewPriceSnapshot(time.Now(), map[string]Quote{}, nil)

	q, ok := snapshot.Quote("TCS.NS")
	assert.False(t, ok)
	assert.True(t, q.Price.IsZero())
}

func TestPriceSnapshot_MarketFailure(t *testing.T) {
	fetchErr := errors.New("upstream 503")
	snapshot := NewPriceSnapshot(time.Now(), nil, map[Market]error{MarketCrypto: fetchErr})

	assert.ErrorIs(t, snapshot.MarketErr(MarketCrypto), fetchErr)
	assert.NoError(t, snapshot.MarketErr(MarketStock))
}

func TestPriceSnapshot_NilSafe(t *testing.T) {
	var snapshot *PriceSnapshot

	_, ok := snapshot.Quote("bitcoin")
	assert.False(t, ok)
	assert.NoError(t, snapshot.MarketErr(MarketStock))
	assert.True(t, snapshot.TakenAt().IsZero())
	assert.Zero(t, snapshot.Len())
	assert.Empty(t, snapshot.Quotes())
}

func TestEmptyPriceSnapshot(t *testing.T) {
	snapshot := EmptyPriceSnapshot()

	assert.Zero(t, snapshot.Len())
	assert.True(t, snapshot.TakenAt().IsZero())
}
