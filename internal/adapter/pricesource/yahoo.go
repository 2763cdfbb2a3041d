package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
)

// Yahoo fetches equity prices from the Yahoo Finance chart API, one request
// per symbol, concurrently within a fetch
type Yahoo struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewYahoo creates a new Yahoo Finance client
func NewYahoo(log zerolog.Logger) *Yahoo {
	return &Yahoo{
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// FetchPrices fetches the regular market price for each symbol. Per-symbol
// failures (bad status, HTML error bodies disguised as success, missing
// fields) leave that symbol absent without affecting the others; the whole
// market fails only when not a single symbol could be fetched.
func (y *Yahoo) FetchPrices(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	if len(symbols) == 0 {
		return map[string]domain.Quote{}, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		quotes   = make(map[string]domain.Quote, len(symbols))
		firstErr error
	)

	now := time.Now()
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			price, err := y.fetchOne(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				y.log.Debug().Err(err).Str("symbol", symbol).Msg("symbol fetch failed")
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			quotes[symbol] = domain.Quote{
				Price:  price,
				Source: domain.QuoteSourceLive,
				AsOf:   now,
			}
		}(symbol)
	}
	wg.Wait()

	if len(quotes) == 0 && firstErr != nil {
		return nil, fmt.Errorf("all %d symbol fetches failed: %w", len(symbols), firstErr)
	}

	return quotes, nil
}

// fetchOne extracts chart.result[0].meta.regularMarketPrice for one symbol.
// The upstream sometimes answers errors with a 200 and a non-JSON body, so
// every step of the extraction is checked.
func (y *Yahoo) fetchOne(ctx context.Context, symbol string) (decimal.Decimal, error) {
	reqURL := fmt.Sprintf("%s/%s?interval=1d", y.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "finboard/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("yahoo returned status %d for %s", resp.StatusCode, symbol)
	}

	var payload struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse response for %s: %w", symbol, err)
	}

	if len(payload.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("no chart result for %s", symbol)
	}

	price := payload.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return decimal.Zero, fmt.Errorf("no usable price for %s", symbol)
	}

	return decimal.NewFromFloat(price), nil
}
