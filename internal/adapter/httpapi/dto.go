package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/usecase/planner"
	"github.com/finboard/finboard-backend/internal/usecase/valuation"
)

// Monetary values travel as JSON strings (decimal's default encoding) so
// clients never see binary-float artifacts.

type createPlanRequest struct {
	Amount   string `json:"amount"`
	RiskTier string `json:"risk_tier"`
}

type planEntryResponse struct {
	InstrumentID   string           `json:"instrument_id"`
	Name           string           `json:"name"`
	Amount         decimal.Decimal  `json:"amount"`
	ReferencePrice *decimal.Decimal `json:"reference_price"` // null when unavailable
	PriceSource    string           `json:"price_source,omitempty"`
}

type planResponse struct {
	RiskTier    string              `json:"risk_tier"`
	Amount      decimal.Decimal     `json:"amount"`
	StockPlan   []planEntryResponse `json:"stock_plan"`
	CryptoPlan  []planEntryResponse `json:"crypto_plan"`
	StockError  *string             `json:"stock_error"`
	CryptoError *string             `json:"crypto_error"`
	PricesAsOf  *time.Time          `json:"prices_as_of"`
}

func toPlanResponse(amount decimal.Decimal, tier domain.RiskTier, result *planner.Result, snapshot *domain.PriceSnapshot) planResponse {
	resp := planResponse{
		RiskTier:   string(tier),
		Amount:     amount,
		StockPlan:  toPlanEntries(result.StockPlan),
		CryptoPlan: toPlanEntries(result.CryptoPlan),
	}
	if result.StockErr != nil {
		msg := result.StockErr.Error()
		resp.StockError = &msg
	}
	if result.CryptoErr != nil {
		msg := result.CryptoErr.Error()
		resp.CryptoError = &msg
	}
	if takenAt := snapshot.TakenAt(); !takenAt.IsZero() {
		resp.PricesAsOf = &takenAt
	}
	return resp
}

func toPlanEntries(entries []planner.Entry) []planEntryResponse {
	out := make([]planEntryResponse, 0, len(entries))
	for _, e := range entries {
		entry := planEntryResponse{
			InstrumentID: e.InstrumentID,
			Name:         e.Name,
			Amount:       e.Amount,
		}
		if e.PriceAvailable {
			price := e.ReferencePrice
			entry.ReferencePrice = &price
			entry.PriceSource = string(e.PriceSource)
		}
		out = append(out, entry)
	}
	return out
}

type createPortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type portfolioResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPortfolioResponse(p *domain.Portfolio) portfolioResponse {
	return portfolioResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

type createHoldingRequest struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	AssetType     string `json:"asset_type"`
	Quantity      string `json:"quantity"`
	PurchasePrice string `json:"purchase_price"`
	PurchaseDate  string `json:"purchase_date"` // RFC 3339, optional
	Notes         string `json:"notes"`
}

type holdingResponse struct {
	ID            string          `json:"id"`
	PortfolioID   string          `json:"portfolio_id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	AssetType     string          `json:"asset_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	Notes         string          `json:"notes,omitempty"`
}

func toHoldingResponse(h *domain.Holding) holdingResponse {
	return holdingResponse{
		ID:            h.ID.String(),
		PortfolioID:   h.PortfolioID.String(),
		Symbol:        h.Symbol,
		Name:          h.Name,
		AssetType:     string(h.AssetType),
		Quantity:      h.Quantity,
		PurchasePrice: h.PurchasePrice,
		PurchaseDate:  h.PurchaseDate,
		Notes:         h.Notes,
	}
}

type holdingValuationResponse struct {
	Holding      holdingResponse `json:"holding"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	PriceSource  string          `json:"price_source,omitempty"`
	StalePrice   bool            `json:"stale_price"`
	MarketValue  decimal.Decimal `json:"market_value"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	Gain         decimal.Decimal `json:"gain"`
	GainPercent  decimal.Decimal `json:"gain_percent"`
}

type valuationResponse struct {
	PortfolioID      string                     `json:"portfolio_id"`
	Holdings         []holdingValuationResponse `json:"holdings"`
	TotalValue       decimal.Decimal            `json:"total_value"`
	TotalCost        decimal.Decimal            `json:"total_cost"`
	TotalGain        decimal.Decimal            `json:"total_gain"`
	TotalGainPercent decimal.Decimal            `json:"total_gain_percent"`
}

func toValuationResponse(portfolioID string, result valuation.Result) valuationResponse {
	holdings := make([]holdingValuationResponse, 0, len(result.PerHolding))
	for _, hv := range result.PerHolding {
		holdings = append(holdings, holdingValuationResponse{
			Holding:      toHoldingResponse(hv.Holding),
			CurrentPrice: hv.CurrentPrice,
			PriceSource:  string(hv.PriceSource),
			StalePrice:   hv.StalePrice,
			MarketValue:  hv.MarketValue,
			CostBasis:    hv.CostBasis,
			Gain:         hv.Gain,
			GainPercent:  hv.GainPercent,
		})
	}
	return valuationResponse{
		PortfolioID:      portfolioID,
		Holdings:         holdings,
		TotalValue:       result.TotalValue,
		TotalCost:        result.TotalCost,
		TotalGain:        result.TotalGain,
		TotalGainPercent: result.TotalGainPercent,
	}
}

type quoteResponse struct {
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
	AsOf   time.Time       `json:"as_of"`
}

type pricesResponse struct {
	TakenAt *time.Time               `json:"taken_at"`
	Quotes  map[string]quoteResponse `json:"quotes"`
	Errors  map[string]string        `json:"errors,omitempty"`
}

func toPricesResponse(snapshot *domain.PriceSnapshot) pricesResponse {
	resp := pricesResponse{Quotes: make(map[string]quoteResponse)}
	if takenAt := snapshot.TakenAt(); !takenAt.IsZero() {
		resp.TakenAt = &takenAt
	}
	for id, q := range snapshot.Quotes() {
		resp.Quotes[id] = quoteResponse{
			Price:  q.Price,
			Source: string(q.Source),
			AsOf:   q.AsOf,
		}
	}
	for _, market := range []domain.Market{domain.MarketStock, domain.MarketCrypto} {
		if err := snapshot.MarketErr(market); err != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[string(market)] = err.Error()
		}
	}
	return resp
}

type newsArticleResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Category    string    `json:"category"`
}

func toNewsResponse(articles []domain.NewsArticle) []newsArticleResponse {
	out := make([]newsArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, newsArticleResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
			Category:    string(a.Category),
		})
	}
	return out
}
