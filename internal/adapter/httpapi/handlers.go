package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/usecase/planner"
	"github.com/finboard/finboard-backend/internal/usecase/pricerefresh"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "finboard",
	})
}

// handleCreatePlan calculates an investment plan for a cash amount and risk
// tier. Parse errors and precondition failures are 400; a whole-market price
// outage is not an error, it comes back inside the plan body.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid amount format")
		return
	}

	tier := domain.RiskTier(req.RiskTier)
	profile, err := domain.TierProfile(tier)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Make sure the tier's baskets are in the refresh set before pricing
	snapshot := s.refresher.AddInterest(r.Context(), profileSymbolSet(profile))

	result, err := planner.Plan(amount, tier, snapshot)
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, toPlanResponse(amount, tier, result, snapshot))
}

// handleListRiskTiers returns the supported risk tiers with their baskets
func (s *Server) handleListRiskTiers(w http.ResponseWriter, r *http.Request) {
	type instrumentResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	type tierResponse struct {
		Tier        string               `json:"tier"`
		StockShare  decimal.Decimal      `json:"stock_share"`
		CryptoShare decimal.Decimal      `json:"crypto_share"`
		Stocks      []instrumentResponse `json:"stocks"`
		Cryptos     []instrumentResponse `json:"cryptos"`
	}

	tiers := make([]tierResponse, 0)
	for _, tier := range domain.RiskTiers() {
		profile, err := domain.TierProfile(tier)
		if err != nil {
			continue
		}
		t := tierResponse{
			Tier:        string(tier),
			StockShare:  profile.StockShare,
			CryptoShare: profile.CryptoShare,
		}
		for _, inst := range profile.StockBasket {
			t.Stocks = append(t.Stocks, instrumentResponse{ID: inst.ID, Name: inst.Name})
		}
		for _, inst := range profile.CryptoBasket {
			t.Cryptos = append(t.Cryptos, instrumentResponse{ID: inst.ID, Name: inst.Name})
		}
		tiers = append(tiers, t)
	}

	s.writeJSON(w, http.StatusOK, tiers)
}

// handleListPortfolios handles listing all portfolios
func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := s.portfolios.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list portfolios")
		return
	}

	out := make([]portfolioResponse, 0, len(portfolios))
	for _, p := range portfolios {
		out = append(out, toPortfolioResponse(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleCreatePortfolio handles portfolio creation
func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	portfolio := &domain.Portfolio{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := portfolio.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.portfolios.Create(r.Context(), portfolio); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create portfolio")
		return
	}

	s.writeJSON(w, http.StatusCreated, toPortfolioResponse(portfolio))
}

// handleDeletePortfolio handles portfolio deletion (holdings cascade)
func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "portfolioID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	if err := s.portfolios.Delete(r.Context(), id); err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	s.resubscribePrices(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleListHoldings handles listing one portfolio's holdings
func (s *Server) handleListHoldings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "portfolioID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	if _, err := s.portfolios.GetByID(r.Context(), id); err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	holdings, err := s.holdings.ListByPortfolio(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list holdings")
		return
	}

	out := make([]holdingResponse, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, toHoldingResponse(h))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleCreateHolding records a new holding and folds its symbol into the
// price refresh set so the next valuation can price it
func (s *Server) handleCreateHolding(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := uuid.Parse(chi.URLParam(r, "portfolioID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	if _, err := s.portfolios.GetByID(r.Context(), portfolioID); err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	var req createHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(req.Quantity))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid quantity format")
		return
	}
	purchasePrice, err := decimal.NewFromString(strings.TrimSpace(req.PurchasePrice))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid purchase_price format")
		return
	}

	purchaseDate := time.Now().UTC()
	if req.PurchaseDate != "" {
		purchaseDate, err = time.Parse(time.RFC3339, req.PurchaseDate)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid purchase_date, expected RFC 3339")
			return
		}
	}

	assetType := domain.AssetType(req.AssetType)
	if req.AssetType == "" {
		assetType = domain.AssetTypeStock
	}

	holding := &domain.Holding{
		ID:            uuid.New(),
		PortfolioID:   portfolioID,
		Symbol:        strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Name:          strings.TrimSpace(req.Name),
		AssetType:     assetType,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchaseDate:  purchaseDate,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := holding.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.holdings.Create(r.Context(), holding); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to create holding")
		return
	}

	// Seed the simulator with the purchase price so the symbol has a
	// starting point to move from
	if s.references != nil {
		s.references.SetReference(holding.Symbol, holding.PurchasePrice)
	}
	s.refresher.AddInterest(r.Context(), holdingSymbolSet([]*domain.Holding{holding}))

	s.writeJSON(w, http.StatusCreated, toHoldingResponse(holding))
}

// handleDeleteHolding handles holding deletion
func (s *Server) handleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "holdingID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid holding id")
		return
	}

	if err := s.holdings.Delete(r.Context(), id); err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	s.resubscribePrices(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleGetValuation values one portfolio against the current price snapshot
func (s *Server) handleGetValuation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "portfolioID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	if _, err := s.portfolios.GetByID(r.Context(), id); err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	result, err := s.valuation.ValuePortfolio(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to value portfolio")
		return
	}

	s.writeJSON(w, http.StatusOK, toValuationResponse(id.String(), result))
}

// handleGetPrices returns the current price snapshot
func (s *Server) handleGetPrices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, toPricesResponse(s.refresher.Current()))
}

// handleListNews returns the news feed, optionally filtered by category
func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	category := domain.NewsCategory(r.URL.Query().Get("category"))
	s.writeJSON(w, http.StatusOK, toNewsResponse(s.news.List(category)))
}

// resubscribePrices rebuilds the refresh set from the holdings that remain.
// Called after deletions so the refresher stops fetching symbols nobody
// holds anymore.
func (s *Server) resubscribePrices(ctx context.Context) {
	holdings, err := s.holdings.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to rebuild price refresh set")
		return
	}
	s.refresher.Subscribe(ctx, holdingSymbolSet(holdings))
}

// profileSymbolSet collects a risk profile's basket identifiers
func profileSymbolSet(profile domain.RiskProfile) pricerefresh.SymbolSet {
	var set pricerefresh.SymbolSet
	for _, inst := range profile.StockBasket {
		set.StockSymbols = append(set.StockSymbols, inst.ID)
	}
	for _, inst := range profile.CryptoBasket {
		set.CryptoIDs = append(set.CryptoIDs, inst.ID)
	}
	return set
}

// holdingSymbolSet routes holding symbols to their market's price feed
func holdingSymbolSet(holdings []*domain.Holding) pricerefresh.SymbolSet {
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

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPortfolioNotFound), errors.Is(err, domain.ErrHoldingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrUnknownRiskTier):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
