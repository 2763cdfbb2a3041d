package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType represents the kind of instrument a holding tracks
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeETF    AssetType = "etf"
	AssetTypeOther  AssetType = "other"
)

// Holding represents a self-reported position inside a portfolio.
// Quantity and PurchasePrice are immutable after creation; there is no
// partial-fill editing. A holding is created and deleted by explicit user
// action only.
type Holding struct {
	ID            uuid.UUID
	PortfolioID   uuid.UUID
	Symbol        string
	Name          string
	AssetType     AssetType
	Quantity      decimal.Decimal // Non-negative
	PurchasePrice decimal.Decimal // Strictly positive
	PurchaseDate  time.Time
	Notes         string
}

// Validate ensures the holding adheres to domain rules
// Returns an error if validation fails
func (h *Holding) Validate() error {
	if h.PortfolioID == uuid.Nil {
		return errors.New("holding must reference a portfolio")
	}

	if h.Symbol == "" {
		return errors.New("holding symbol cannot be empty")
	}

	if h.Name == "" {
		return errors.New("holding name cannot be empty")
	}

	switch h.AssetType {
	case AssetTypeStock, AssetTypeCrypto, AssetTypeETF, AssetTypeOther:
	default:
		return errors.New("asset type must be stock, crypto, etf, or other")
	}

	if h.Quantity.IsNegative() {
		return errors.New("holding quantity cannot be negative")
	}

	if h.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return errors.New("holding purchase price must be positive")
	}

	return nil
}

// CostBasis returns quantity * purchase price
func (h *Holding) CostBasis() decimal.Decimal {
	return h.Quantity.Mul(h.PurchasePrice)
}
