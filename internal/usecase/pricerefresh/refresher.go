package pricerefresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/finboard/finboard-backend/internal/domain"
)

// SymbolSet is the dynamic set of instruments the refresher keeps priced:
// the symbols of all loaded holdings, or the baskets of the last requested
// plan
type SymbolSet struct {
	CryptoIDs    []string
	StockSymbols []string
}

// IsEmpty reports whether the set names no instruments at all
func (s SymbolSet) IsEmpty() bool {
	return len(s.CryptoIDs) == 0 && len(s.StockSymbols) == 0
}

// Union merges another set into this one, de-duplicating identifiers
func (s SymbolSet) Union(other SymbolSet) SymbolSet {
	return SymbolSet{
		CryptoIDs:    mergeIDs(s.CryptoIDs, other.CryptoIDs),
		StockSymbols: mergeIDs(s.StockSymbols, other.StockSymbols),
	}
}

func mergeIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range append(append([]string{}, a...), b...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Refresher maintains a current price snapshot for a dynamic symbol set and
// re-fetches it on a fixed interval without blocking consumers.
//
// Within one cycle the crypto and stock fetches run concurrently and the
// cycle completes only when both have settled (all-complete join). Cycles
// for the same refresher never overlap: a new cycle does not start until the
// previous one's fetches have resolved, so a snapshot can never tear. A
// failed symbol is retried on the next scheduled cycle only; there is no
// mid-cycle retry and no backoff.
type Refresher struct {
	cryptoSource domain.PriceSource
	stockSource  domain.PriceSource
	interval     time.Duration
	log          zerolog.Logger

	mu       sync.RWMutex
	set      SymbolSet
	snapshot *domain.PriceSnapshot

	cycleMu sync.Mutex // serializes refresh cycles

	loopMu  sync.Mutex // guards loop start/stop
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a new Refresher instance. The sources are injected so tests
// can force determinism with fixed implementations.
func New(cryptoSource, stockSource domain.PriceSource, interval time.Duration, log zerolog.Logger) *Refresher {
	return &Refresher{
		cryptoSource: cryptoSource,
		stockSource:  stockSource,
		interval:     interval,
		log:          log.With().Str("component", "pricerefresh").Logger(),
		snapshot:     domain.EmptyPriceSnapshot(),
	}
}

// Subscribe replaces the set of interesting instruments, fetches it
// immediately, and starts the periodic loop on first use.
// Returns the freshly materialized snapshot.
func (r *Refresher) Subscribe(ctx context.Context, set SymbolSet) *domain.PriceSnapshot {
	r.mu.Lock()
	r.set = set
	r.mu.Unlock()

	snapshot := r.refresh(ctx)
	r.startLoop()
	return snapshot
}

// AddInterest unions extra instruments (e.g. the baskets of a plan request)
// into the current set and runs an immediate cycle covering the union
func (r *Refresher) AddInterest(ctx context.Context, set SymbolSet) *domain.PriceSnapshot {
	r.mu.Lock()
	r.set = r.set.Union(set)
	r.mu.Unlock()

	snapshot := r.refresh(ctx)
	r.startLoop()
	return snapshot
}

// Current returns the latest materialized snapshot. Never blocks on a fetch.
func (r *Refresher) Current() *domain.PriceSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// RefreshNow forces an on-demand cycle for the current set
func (r *Refresher) RefreshNow(ctx context.Context) *domain.PriceSnapshot {
	return r.refresh(ctx)
}

// Stop cancels the periodic loop. No further cycles run after Stop returns;
// an in-flight cycle's fetches are cancelled through their context and its
// partial results are discarded by consumers simply never asking again.
func (r *Refresher) Stop() {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if !r.running {
		return
	}
	r.cancel()
	<-r.done
	r.running = false
	r.log.Info().Msg("price refresh loop stopped")
}

func (r *Refresher) startLoop() {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if r.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true

	go r.run(ctx)
	r.log.Info().Dur("interval", r.interval).Msg("price refresh loop started")
}

// run is the single loop goroutine; because each tick's cycle executes in
// this goroutine, two cycles can never run concurrently from the timer path
func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// refresh runs one full fetch cycle and atomically publishes the resulting
// snapshot. The cycle mutex also serializes on-demand refreshes against the
// timer loop.
func (r *Refresher) refresh(ctx context.Context) *domain.PriceSnapshot {
	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	r.mu.RLock()
	set := r.set
	r.mu.RUnlock()

	var (
		wg           sync.WaitGroup
		cryptoQuotes map[string]domain.Quote
		cryptoErr    error
		stockQuotes  map[string]domain.Quote
		stockErr     error
	)

	if len(set.CryptoIDs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cryptoQuotes, cryptoErr = r.cryptoSource.FetchPrices(ctx, set.CryptoIDs)
		}()
	}

	if len(set.StockSymbols) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stockQuotes, stockErr = r.stockSource.FetchPrices(ctx, set.StockSymbols)
		}()
	}

	// All-complete join: the cycle settles only when every sub-fetch has,
	// never first-complete-wins
	wg.Wait()

	quotes := make(map[string]domain.Quote, len(cryptoQuotes)+len(stockQuotes))
	failed := make(map[domain.Market]error)

	if cryptoErr != nil {
		failed[domain.MarketCrypto] = cryptoErr
		r.log.Warn().Err(cryptoErr).Msg("crypto price fetch failed for the whole market")
	} else {
		for id, q := range cryptoQuotes {
			quotes[id] = q
		}
	}

	if stockErr != nil {
		failed[domain.MarketStock] = stockErr
		r.log.Warn().Err(stockErr).Msg("stock price fetch failed for the whole market")
	} else {
		for id, q := range stockQuotes {
			quotes[id] = q
		}
	}

	snapshot := domain.NewPriceSnapshot(time.Now(), quotes, failed)

	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()

	r.log.Debug().
		Int("quotes", snapshot.Len()).
		Int("crypto_requested", len(set.CryptoIDs)).
		Int("stocks_requested", len(set.StockSymbols)).
		Msg("price snapshot published")

	return snapshot
}
