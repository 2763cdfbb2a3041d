package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/usecase/news"
	"github.com/finboard/finboard-backend/internal/usecase/pricerefresh"
	"github.com/finboard/finboard-backend/internal/usecase/valuation"
)

// ReferenceSetter lets handlers seed a simulated price feed with a freshly
// recorded purchase price. Nil when the feeds are live.
type ReferenceSetter interface {
	SetReference(id string, price decimal.Decimal)
}

// Config holds server configuration and wiring
type Config struct {
	Port     int
	APIToken string
	DevMode  bool
	Log      zerolog.Logger

	Portfolios domain.PortfolioRepository
	Holdings   domain.HoldingRepository
	Valuation  *valuation.Service
	News       *news.Service
	Refresher  *pricerefresh.Refresher
	References ReferenceSetter
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	apiToken   string
	portfolios domain.PortfolioRepository
	holdings   domain.HoldingRepository
	valuation  *valuation.Service
	news       *news.Service
	refresher  *pricerefresh.Refresher
	references ReferenceSetter
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		apiToken:   cfg.APIToken,
		portfolios: cfg.Portfolios,
		holdings:   cfg.Holdings,
		valuation:  cfg.Valuation,
		news:       cfg.News,
		refresher:  cfg.Refresher,
		references: cfg.References,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check, unauthenticated
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/plan", s.handleCreatePlan)
		r.Get("/risk-tiers", s.handleListRiskTiers)

		r.Route("/portfolios", func(r chi.Router) {
			r.Get("/", s.handleListPortfolios)
			r.Post("/", s.handleCreatePortfolio)
			r.Delete("/{portfolioID}", s.handleDeletePortfolio)
			r.Get("/{portfolioID}/holdings", s.handleListHoldings)
			r.Post("/{portfolioID}/holdings", s.handleCreateHolding)
			r.Get("/{portfolioID}/valuation", s.handleGetValuation)
		})

		r.Delete("/holdings/{holdingID}", s.handleDeleteHolding)

		r.Get("/prices", s.handleGetPrices)
		r.Get("/news", s.handleListNews)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// authMiddleware validates the bearer token on every API request.
// A missing or wrong token gets 401; the health endpoint stays open.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			s.writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token != s.apiToken {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
