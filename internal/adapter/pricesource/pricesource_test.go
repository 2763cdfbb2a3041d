package pricesource

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard/finboard-backend/internal/domain"
)

func TestCoinGecko_FetchPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "inr", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"inr":5000000.5},"ethereum":{"inr":250000}}`))
	}))
	defer server.Close()

	client := NewCoinGecko("inr", zerolog.Nop())
	client.baseURL = server.URL

	quotes, err := client.FetchPrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.True(t, quotes["bitcoin"].Price.Equal(decimal.NewFromFloat(5000000.5)))
	assert.Equal(t, domain.QuoteSourceLive, quotes["bitcoin"].Source)
}

func TestCoinGecko_MissingIDIsAbsentNotZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"inr":5000000}}`))
	}))
	defer server.Close()

	client := NewCoinGecko("inr", zerolog.Nop())
	client.baseURL = server.URL

	quotes, err := client.FetchPrices(context.Background(), []string{"bitcoin", "dogless-coin"})
	require.NoError(t, err)

	_, ok := quotes["dogless-coin"]
	assert.False(t, ok)
	assert.Len(t, quotes, 1)
}

func TestCoinGecko_ErrorStatusFailsMarket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewCoinGecko("inr", zerolog.Nop())
	client.baseURL = server.URL

	_, err := client.FetchPrices(context.Background(), []string{"bitcoin"})
	assert.Error(t, err)
}

func TestCoinGecko_HTMLBodyDisguisedAsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>upstream error</body></html>`))
	}))
	defer server.Close()

	client := NewCoinGecko("inr", zerolog.Nop())
	client.baseURL = server.URL

	_, err := client.FetchPrices(context.Background(), []string{"bitcoin"})
	assert.Error(t, err, "a non-JSON body must fail the fetch, not panic or yield zeros")
}

func TestYahoo_FetchPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/TCS.NS":
			_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":3512.3}}]}}`))
		case "/INFY.NS":
			// Error body disguised as a 200
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewYahoo(zerolog.Nop())
	client.baseURL = server.URL

	quotes, err := client.FetchPrices(context.Background(), []string{"TCS.NS", "INFY.NS", "MISSING.NS"})
	require.NoError(t, err, "partial success must not fail the market")
	require.Len(t, quotes, 1)

	assert.True(t, quotes["TCS.NS"].Price.Equal(decimal.NewFromFloat(3512.3)))

	_, ok := quotes["INFY.NS"]
	assert.False(t, ok)
}

func TestYahoo_AllSymbolsFailingFailsMarket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewYahoo(zerolog.Nop())
	client.baseURL = server.URL

	_, err := client.FetchPrices(context.Background(), []string{"TCS.NS", "INFY.NS"})
	assert.Error(t, err)
}

func TestSimulated_Deterministic(t *testing.T) {
	refs := map[string]decimal.Decimal{"BTC": decimal.NewFromInt(40000)}

	a := NewSimulated(refs, rand.New(rand.NewSource(42)))
	b := NewSimulated(refs, rand.New(rand.NewSource(42)))

	qa, err := a.FetchPrices(context.Background(), []string{"BTC"})
	require.NoError(t, err)
	qb, err := b.FetchPrices(context.Background(), []string{"BTC"})
	require.NoError(t, err)

	assert.True(t, qa["BTC"].Price.Equal(qb["BTC"].Price),
		"same seed must synthesize the same prices")
	assert.Equal(t, domain.QuoteSourceSimulated, qa["BTC"].Source)
}

func TestSimulated_PerturbationBounded(t *testing.T) {
	base := decimal.NewFromInt(1000)
	s := NewSimulated(map[string]decimal.Decimal{"X": base}, rand.New(rand.NewSource(7)))

	prev := base
	for i := 0; i < 200; i++ {
		quotes, err := s.FetchPrices(context.Background(), []string{"X"})
		require.NoError(t, err)

		price := quotes["X"].Price
		lower := prev.Mul(decimal.NewFromFloat(1 - simulatedVolatility))
		upper := prev.Mul(decimal.NewFromFloat(1 + simulatedVolatility))
		assert.True(t, price.GreaterThanOrEqual(lower) && price.LessThanOrEqual(upper),
			"cycle %d: price %s outside ±10%% of %s", i, price, prev)
		assert.True(t, price.IsPositive())
		prev = price
	}
}

func TestSimulated_UnknownInstrumentAbsent(t *testing.T) {
	s := NewSimulated(nil, rand.New(rand.NewSource(1)))

	quotes, err := s.FetchPrices(context.Background(), []string{"UNKNOWN"})
	require.NoError(t, err)
	assert.Empty(t, quotes)

	s.SetReference("UNKNOWN", decimal.NewFromInt(50))
	quotes, err = s.FetchPrices(context.Background(), []string{"UNKNOWN"})
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestSimulated_NonPositiveReferenceIgnored(t *testing.T) {
	s := NewSimulated(nil, rand.New(rand.NewSource(1)))
	s.SetReference("X", decimal.Zero)

	quotes, err := s.FetchPrices(context.Background(), []string{"X"})
	require.NoError(t, err)
	assert.Empty(t, quotes, "a zero reference must stay unavailable, never a zero price")
}
