// Package pricesource provides the price feed adapters behind the
// domain.PriceSource boundary: live CoinGecko (crypto) and Yahoo Finance
// (equities) clients, plus a simulated stand-in for offline use.
package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
)

// CoinGecko fetches crypto prices from the CoinGecko simple-price API
type CoinGecko struct {
	baseURL    string
	vsCurrency string
	client     *http.Client
	log        zerolog.Logger
}

// NewCoinGecko creates a new CoinGecko client quoting prices in vsCurrency
// (e.g. "inr", "usd")
func NewCoinGecko(vsCurrency string, log zerolog.Logger) *CoinGecko {
	return &CoinGecko{
		baseURL:    "https://api.coingecko.com/api/v3",
		vsCurrency: strings.ToLower(vsCurrency),
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log.With().Str("client", "coingecko").Logger(),
	}
}

// FetchPrices fetches the current price for each CoinGecko id in one batch
// call. An id the API does not price is simply absent from the result; a
// request or decode failure fails the whole market.
func (c *CoinGecko) FetchPrices(ctx context.Context, ids []string) (map[string]domain.Quote, error) {
	if len(ids) == 0 {
		return map[string]domain.Quote{}, nil
	}

	params := url.Values{
		"ids":           {strings.Join(ids, ",")},
		"vs_currencies": {c.vsCurrency},
	}
	reqURL := c.baseURL + "/simple/price?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	// Response shape: {"bitcoin":{"inr":5000000.12}, ...}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	now := time.Now()
	quotes := make(map[string]domain.Quote, len(ids))
	for _, id := range ids {
		price, ok := payload[id][c.vsCurrency]
		if !ok || price <= 0 {
			c.log.Debug().Str("id", id).Msg("no price in response")
			continue
		}
		quotes[id] = domain.Quote{
			Price:  decimal.NewFromFloat(price),
			Source: domain.QuoteSourceLive,
			AsOf:   now,
		}
	}

	return quotes, nil
}
