package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/adapter/httpapi"
	"github.com/finboard/finboard-backend/internal/adapter/pricesource"
	"github.com/finboard/finboard-backend/internal/adapter/repository/memory"
	"github.com/finboard/finboard-backend/internal/adapter/repository/postgres"
	"github.com/finboard/finboard-backend/internal/config"
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/jobs"
	"github.com/finboard/finboard-backend/internal/usecase/news"
	"github.com/finboard/finboard-backend/internal/usecase/pricerefresh"
	"github.com/finboard/finboard-backend/internal/usecase/valuation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := newLogger(cfg)
	log.Info().Msg("starting finboard")

	// 1. Storage: Postgres when configured, in-memory otherwise
	var (
		portfolioRepo domain.PortfolioRepository
		holdingRepo   domain.HoldingRepository
	)
	if cfg.DatabaseConnStr != "" {
		db, err := postgres.NewDB(cfg.DatabaseConnStr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		portfolioRepo = postgres.NewPortfolioRepository(db)
		holdingRepo = postgres.NewHoldingRepository(db)
		log.Info().Msg("using postgres storage")
	} else {
		portfolioRepo, holdingRepo = memory.NewRepositories()
		log.Info().Msg("using in-memory storage")
	}

	ctx := context.Background()

	// 2. Price feeds
	cryptoSource, stockSource, references := buildPriceSources(ctx, cfg, holdingRepo, log)

	refresher := pricerefresh.New(cryptoSource, stockSource, cfg.PriceRefreshInterval, log)
	defer refresher.Stop()

	// Prime the snapshot with the symbols already held
	if holdings, err := holdingRepo.ListAll(ctx); err != nil {
		log.Error().Err(err).Msg("failed to load holdings for initial price fetch")
	} else if len(holdings) > 0 {
		refresher.Subscribe(ctx, symbolSetFromHoldings(holdings))
	}

	// 3. Services
	valuationService := valuation.NewService(holdingRepo, refresher)
	newsService := news.NewService(log)

	// 4. Background jobs
	scheduler := jobs.New(log)
	if err := scheduler.AddEvery(cfg.NewsRefreshInterval, jobs.Func{
		JobName: "news-refresh",
		Fn: func() error {
			newsService.Refresh()
			return nil
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register news refresh job")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 5. HTTP server
	srv := httpapi.New(httpapi.Config{
		Port:       cfg.Port,
		APIToken:   cfg.APIToken,
		DevMode:    cfg.DevMode,
		Log:        log,
		Portfolios: portfolioRepo,
		Holdings:   holdingRepo,
		Valuation:  valuationService,
		News:       newsService,
		Refresher:  refresher,
		References: references,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Port).Msg("server started")

	waitForShutdown(srv, log)
}

// buildPriceSources selects live feeds or the local simulator.
// The simulator is seeded with the purchase prices of existing holdings so
// every held symbol has a reference to move from.
func buildPriceSources(ctx context.Context, cfg *config.Config, holdingRepo domain.HoldingRepository, log zerolog.Logger) (domain.PriceSource, domain.PriceSource, httpapi.ReferenceSetter) {
	if !cfg.SimulatedPrices {
		return pricesource.NewCoinGecko(cfg.VsCurrency, log), pricesource.NewYahoo(log), nil
	}

	refs := make(map[string]decimal.Decimal)
	if holdings, err := holdingRepo.ListAll(ctx); err != nil {
		log.Error().Err(err).Msg("failed to seed simulated prices from holdings")
	} else {
		for _, h := range holdings {
			refs[h.Symbol] = h.PurchasePrice
		}
	}

	simulated := pricesource.NewSimulated(refs, rand.New(rand.NewSource(time.Now().UnixNano())))
	log.Info().Int("seeded", len(refs)).Msg("using simulated price feeds")
	return simulated, simulated, simulated
}

// symbolSetFromHoldings routes each held symbol to its market's feed
func symbolSetFromHoldings(holdings []*domain.Holding) pricerefresh.SymbolSet {
	var set pricerefresh.SymbolSet
	for _, h := range holdings {
		if h.AssetType == domain.AssetTypeCrypto {
			set.CryptoIDs = append(set.CryptoIDs, h.Symbol)
		} else {
			set.StockSymbols = append(set.StockSymbols, h.Symbol)
		}
	}
	return set
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.DevMode {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
func waitForShutdown(srv *httpapi.Server, log zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}
